package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry for the API
	Registry = prometheus.NewRegistry()
	// HTTPRequests counts requests by method, path, and status
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "path", "status"},
	)
	// HTTPDuration records request durations in seconds
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "path", "status"},
	)

	// TripPlans counts trip planning outcomes by route provider and status
	TripPlans = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "trip_plans_total", Help: "Trip plans by route provider and status."},
		[]string{"provider", "status"},
	)
	// TripPlanDuration tracks end-to-end planning latency in seconds
	TripPlanDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "trip_plan_duration_seconds", Help: "Trip planning duration in seconds.", Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}},
		[]string{"provider"},
	)
	// GeocodeLookups counts reverse geocode lookups by result source
	GeocodeLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "geocode_lookups_total", Help: "Reverse geocode lookups by result (hit, resolved, fallback)."},
		[]string{"result"},
	)
	// CleanupTripsPurged counts trips removed by the retention job
	CleanupTripsPurged = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "cleanup_trips_purged_total", Help: "Trips purged by the retention cleanup job."},
	)
)

// RegisterDefault registers collectors to the default registry.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(HTTPDuration)
		Registry.MustRegister(TripPlans)
		Registry.MustRegister(TripPlanDuration)
		Registry.MustRegister(GeocodeLookups)
		Registry.MustRegister(CleanupTripsPurged)
		// Go/process collectors on our registry
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

var regOnce sync.Once
