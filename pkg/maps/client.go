package maps

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/haulplan/eld-backend/internal/models"
)

const (
	// FallbackSpeedMPH is the assumed average speed when a route has to be
	// estimated from straight-line distance.
	FallbackSpeedMPH = 55.0

	metersPerMile = 0.000621371
	earthRadiusMi = 3959.0
)

// TripRoute is the routed figure set for one current→pickup→dropoff trip
type TripRoute struct {
	Legs               []models.LegFigures `json:"legs"`
	TotalDistanceMiles float64             `json:"total_distance_miles"`
	TotalDurationHours float64             `json:"total_duration_hours"`
	Fallback           bool                `json:"fallback,omitempty"`
}

// Router resolves a trip's waypoints into routed legs
type Router interface {
	MultiLegRoute(ctx context.Context, current, pickup, dropoff models.Coordinate) (*TripRoute, error)
}

// Config holds configuration for the Azure Maps client
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client calls the Azure Maps REST API for truck routing and geocoding.
// Transport failures on the routing endpoints degrade to a haversine
// estimate instead of failing the request.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *logrus.Logger
}

// NewClient creates a new Azure Maps client
func NewClient(config Config, logger *logrus.Logger) *Client {
	timeout := config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(config.BaseURL, "/"),
		apiKey:  config.APIKey,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

type routeSummary struct {
	LengthInMeters      float64 `json:"lengthInMeters"`
	TravelTimeInSeconds float64 `json:"travelTimeInSeconds"`
}

type routeResponse struct {
	Routes []struct {
		Summary routeSummary `json:"summary"`
		Legs    []struct {
			Summary routeSummary `json:"summary"`
		} `json:"legs"`
	} `json:"routes"`
}

type searchResponse struct {
	Results []struct {
		Position struct {
			Lat float64 `json:"lat"`
			Lon float64 `json:"lon"`
		} `json:"position"`
	} `json:"results"`
}

type reverseResponse struct {
	Addresses []struct {
		Address struct {
			StreetNumber       string `json:"streetNumber"`
			StreetName         string `json:"streetName"`
			Municipality       string `json:"municipality"`
			CountrySubdivision string `json:"countrySubdivision"`
		} `json:"address"`
	} `json:"addresses"`
}

// Route calculates a truck route through the given waypoints. A transport
// or gateway failure falls back to a straight-line estimate.
func (c *Client) Route(ctx context.Context, waypoints []models.Coordinate) (*TripRoute, error) {
	if len(waypoints) < 2 {
		return nil, models.NewValidationError("at least 2 waypoints are required")
	}

	coords := make([]string, 0, len(waypoints))
	for _, wp := range waypoints {
		coords = append(coords, fmt.Sprintf("%f,%f", wp.Latitude, wp.Longitude))
	}

	params := url.Values{}
	params.Set("api-version", "1.0")
	params.Set("subscription-key", c.apiKey)
	params.Set("query", strings.Join(coords, ":"))
	params.Set("travelMode", "truck")
	params.Set("vehicleWidth", "2.6")
	params.Set("vehicleHeight", "4.0")
	params.Set("vehicleLength", "20")
	params.Set("vehicleWeight", "36000")
	params.Set("computeBestOrder", "false")
	params.Set("routeType", "fastest")
	params.Set("traffic", "true")

	var parsed routeResponse
	if err := c.getJSON(ctx, "/route/directions/json", params, &parsed); err != nil {
		c.logger.WithFields(logrus.Fields{
			"error":     err.Error(),
			"waypoints": len(waypoints),
		}).Warn("Route request failed, falling back to straight-line estimate")
		return FallbackRoute(waypoints), nil
	}

	if len(parsed.Routes) == 0 {
		return nil, fmt.Errorf("no routes found in response")
	}

	route := parsed.Routes[0]
	legs := make([]models.LegFigures, 0, len(route.Legs))
	for _, leg := range route.Legs {
		legs = append(legs, models.LegFigures{
			DistanceMiles: leg.Summary.LengthInMeters * metersPerMile,
			DurationHours: leg.Summary.TravelTimeInSeconds / 3600,
		})
	}

	return &TripRoute{
		Legs:               legs,
		TotalDistanceMiles: round1(route.Summary.LengthInMeters * metersPerMile),
		TotalDurationHours: round1(route.Summary.TravelTimeInSeconds / 3600),
	}, nil
}

// MultiLegRoute routes the two trip legs separately so each leg carries its
// own distance and duration figures
func (c *Client) MultiLegRoute(ctx context.Context, current, pickup, dropoff models.Coordinate) (*TripRoute, error) {
	leg1, err := c.Route(ctx, []models.Coordinate{current, pickup})
	if err != nil {
		return nil, fmt.Errorf("failed to route current to pickup: %w", err)
	}

	leg2, err := c.Route(ctx, []models.Coordinate{pickup, dropoff})
	if err != nil {
		return nil, fmt.Errorf("failed to route pickup to dropoff: %w", err)
	}

	return &TripRoute{
		Legs: []models.LegFigures{
			{DistanceMiles: leg1.TotalDistanceMiles, DurationHours: leg1.TotalDurationHours, Fallback: leg1.Fallback},
			{DistanceMiles: leg2.TotalDistanceMiles, DurationHours: leg2.TotalDurationHours, Fallback: leg2.Fallback},
		},
		TotalDistanceMiles: round1(leg1.TotalDistanceMiles + leg2.TotalDistanceMiles),
		TotalDurationHours: round1(leg1.TotalDurationHours + leg2.TotalDurationHours),
		Fallback:           leg1.Fallback || leg2.Fallback,
	}, nil
}

// Geocode converts a street address to coordinates
func (c *Client) Geocode(ctx context.Context, address string) (models.Coordinate, error) {
	params := url.Values{}
	params.Set("api-version", "1.0")
	params.Set("subscription-key", c.apiKey)
	params.Set("query", address)
	params.Set("limit", "1")

	var parsed searchResponse
	if err := c.getJSON(ctx, "/search/address/json", params, &parsed); err != nil {
		return models.Coordinate{}, fmt.Errorf("could not geocode address %q: %w", address, err)
	}

	if len(parsed.Results) == 0 {
		return models.Coordinate{}, fmt.Errorf("could not geocode address %q: no results", address)
	}

	return models.Coordinate{
		Latitude:  parsed.Results[0].Position.Lat,
		Longitude: parsed.Results[0].Position.Lon,
		Address:   address,
	}, nil
}

// ReverseGeocode converts coordinates to a formatted address. A response
// with no address match degrades to the bare coordinate string; transport
// failures surface as errors so callers can decide whether to cache.
func (c *Client) ReverseGeocode(ctx context.Context, lat, lon float64) (string, error) {
	params := url.Values{}
	params.Set("api-version", "1.0")
	params.Set("subscription-key", c.apiKey)
	params.Set("query", fmt.Sprintf("%f,%f", lat, lon))

	var parsed reverseResponse
	if err := c.getJSON(ctx, "/search/address/reverse/json", params, &parsed); err != nil {
		return "", fmt.Errorf("reverse geocode failed: %w", err)
	}

	if len(parsed.Addresses) == 0 {
		return FormatCoordinate(lat, lon), nil
	}

	addr := parsed.Addresses[0].Address
	var parts []string
	if addr.StreetNumber != "" && addr.StreetName != "" {
		parts = append(parts, addr.StreetNumber+" "+addr.StreetName)
	}
	if addr.Municipality != "" {
		parts = append(parts, addr.Municipality)
	}
	if addr.CountrySubdivision != "" {
		parts = append(parts, addr.CountrySubdivision)
	}
	if len(parts) == 0 {
		return FormatCoordinate(lat, lon), nil
	}
	return strings.Join(parts, ", "), nil
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// FormatCoordinate renders a lat/lon pair the way degraded geocode results
// are shown
func FormatCoordinate(lat, lon float64) string {
	return fmt.Sprintf("%v, %v", lat, lon)
}

// FallbackRoute estimates a route over the waypoints with the haversine
// formula at a 55 mph average
func FallbackRoute(waypoints []models.Coordinate) *TripRoute {
	var totalDistance float64
	legs := make([]models.LegFigures, 0, len(waypoints)-1)

	for i := 0; i < len(waypoints)-1; i++ {
		distance := haversineMiles(
			waypoints[i].Latitude, waypoints[i].Longitude,
			waypoints[i+1].Latitude, waypoints[i+1].Longitude,
		)
		totalDistance += distance
		legs = append(legs, models.LegFigures{
			DistanceMiles: round1(distance),
			DurationHours: round2(distance / FallbackSpeedMPH),
			Fallback:      true,
		})
	}

	return &TripRoute{
		Legs:               legs,
		TotalDistanceMiles: round1(totalDistance),
		TotalDurationHours: round1(totalDistance / FallbackSpeedMPH),
		Fallback:           true,
	}
}

func haversineMiles(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Asin(math.Sqrt(a))

	return earthRadiusMi * c
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
