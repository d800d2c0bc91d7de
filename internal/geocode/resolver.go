package geocode

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/haulplan/eld-backend/internal/cache"
	"github.com/haulplan/eld-backend/internal/metrics"
	"github.com/haulplan/eld-backend/pkg/maps"
)

// Geocoder converts coordinates to a place name
type Geocoder interface {
	ReverseGeocode(ctx context.Context, lat, lon float64) (string, error)
}

// Resolver answers place-name lookups for the schedule through a
// read-through cache. Provider failures degrade to the bare coordinate
// string and are never cached, so the next lookup retries the provider.
type Resolver struct {
	geocoder Geocoder
	cache    cache.Cache
	ttl      time.Duration
	logger   *logrus.Logger
}

// NewResolver creates a resolver over the given geocoder and cache
func NewResolver(geocoder Geocoder, c cache.Cache, ttl time.Duration, logger *logrus.Logger) *Resolver {
	return &Resolver{
		geocoder: geocoder,
		cache:    c,
		ttl:      ttl,
		logger:   logger,
	}
}

// Resolve returns a display name for the coordinate. It never returns an
// error; the worst outcome is the coordinate rendered as text.
func (r *Resolver) Resolve(ctx context.Context, lat, lon float64) (string, error) {
	key := cacheKey(lat, lon)

	if place, ok := r.cache.Get(ctx, key); ok {
		metrics.GeocodeLookups.WithLabelValues("hit").Inc()
		return place, nil
	}

	place, err := r.geocoder.ReverseGeocode(ctx, lat, lon)
	if err != nil {
		r.logger.WithFields(logrus.Fields{
			"lat":   lat,
			"lon":   lon,
			"error": err.Error(),
		}).Warn("Reverse geocode failed, using raw coordinates")
		metrics.GeocodeLookups.WithLabelValues("fallback").Inc()
		return maps.FormatCoordinate(lat, lon), nil
	}

	r.cache.Set(ctx, key, place, r.ttl)
	metrics.GeocodeLookups.WithLabelValues("resolved").Inc()
	return place, nil
}

// cacheKey quantizes to four decimal places (about 11 meters) so nearby
// lookups share an entry
func cacheKey(lat, lon float64) string {
	return fmt.Sprintf("geocode:%.4f,%.4f", lat, lon)
}
