package maps

import (
	"context"

	"github.com/haulplan/eld-backend/internal/models"
)

// FallbackRouter satisfies Router without calling any provider; every trip
// is estimated with the haversine formula. Used when no Azure Maps key is
// configured.
type FallbackRouter struct{}

func (FallbackRouter) MultiLegRoute(ctx context.Context, current, pickup, dropoff models.Coordinate) (*TripRoute, error) {
	leg1 := FallbackRoute([]models.Coordinate{current, pickup})
	leg2 := FallbackRoute([]models.Coordinate{pickup, dropoff})

	return &TripRoute{
		Legs: []models.LegFigures{
			{DistanceMiles: leg1.TotalDistanceMiles, DurationHours: leg1.TotalDurationHours, Fallback: true},
			{DistanceMiles: leg2.TotalDistanceMiles, DurationHours: leg2.TotalDurationHours, Fallback: true},
		},
		TotalDistanceMiles: round1(leg1.TotalDistanceMiles + leg2.TotalDistanceMiles),
		TotalDurationHours: round1(leg1.TotalDurationHours + leg2.TotalDurationHours),
		Fallback:           true,
	}, nil
}
