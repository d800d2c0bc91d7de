package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/haulplan/eld-backend/internal/database"
	"github.com/haulplan/eld-backend/internal/eld"
	"github.com/haulplan/eld-backend/internal/hos"
	"github.com/haulplan/eld-backend/internal/metrics"
	"github.com/haulplan/eld-backend/internal/models"
	"github.com/haulplan/eld-backend/pkg/maps"
)

const (
	defaultListLimit = 20
	maxListLimit     = 200
)

// TripService orchestrates trip planning: routing, the duty-cycle
// simulation, daily log aggregation, compliance audit, and persistence.
type TripService struct {
	repo      *database.TripRepository
	router    maps.Router
	simulator *hos.Simulator
	eldGen    *eld.Generator
	provider  string
	logger    *logrus.Logger
}

// NewTripService creates a new TripService
func NewTripService(
	repo *database.TripRepository,
	router maps.Router,
	simulator *hos.Simulator,
	eldGen *eld.Generator,
	provider string,
	logger *logrus.Logger,
) *TripService {
	return &TripService{
		repo:      repo,
		router:    router,
		simulator: simulator,
		eldGen:    eldGen,
		provider:  provider,
		logger:    logger,
	}
}

// PlanTrip computes a full HOS-compliant trip plan and stores it.
func (s *TripService) PlanTrip(ctx context.Context, req *models.PlanTripRequest) (*models.TripPlan, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	started := time.Now()

	startTime := time.Now().UTC()
	if req.StartTime != nil {
		startTime = req.StartTime.UTC()
	}

	figures, provider, err := s.resolveFigures(ctx, req)
	if err != nil {
		metrics.TripPlans.WithLabelValues(provider, "error").Inc()
		return nil, err
	}

	legs, err := hos.BuildLegs(req.CurrentLocation, req.PickupLocation, req.DropoffLocation, figures)
	if err != nil {
		metrics.TripPlans.WithLabelValues(provider, "error").Inc()
		return nil, err
	}

	events, err := s.simulator.Simulate(ctx, legs, startTime, hos.Config{
		CurrentCycleUsed:  req.CurrentCycleUsed,
		WeeklyMode:        req.Mode(),
		UseSplitSleeper:   req.UseSplitSleeper,
		AdverseConditions: req.AdverseConditions,
		AirMileException:  req.AirMileException,
	})
	if err != nil {
		metrics.TripPlans.WithLabelValues(provider, "error").Inc()
		return nil, err
	}

	dailyLogs := hos.AggregateDailyLogs(events)
	compliance := hos.CheckCompliance(events)
	summary := hos.Summarize(events, startTime)

	var totalDistance, nominalDriving float64
	for _, leg := range legs {
		totalDistance += leg.DistanceMiles
		nominalDriving += leg.DurationHours
	}

	plan := &models.TripPlan{
		TripID:              uuid.New().String(),
		TotalDistanceMiles:  roundTo(totalDistance, 1),
		TotalDrivingHours:   roundTo(nominalDriving, 1),
		EstimatedTotalHours: summary.TotalDurationHours,
		WeeklyMode:          req.Mode(),
		SplitSleeperUsed:    req.UseSplitSleeper,
		AdverseConditions:   req.AdverseConditions,
		AirMileException:    req.AirMileException,
		Legs:                legs,
		Schedule:            events,
		DailyLogs:           dailyLogs,
		Compliance:          compliance,
		Summary:             summary,
	}

	trip := buildTripRecord(req, plan)
	if err := s.repo.Create(trip); err != nil {
		metrics.TripPlans.WithLabelValues(provider, "error").Inc()
		return nil, fmt.Errorf("failed to store trip plan: %w", err)
	}

	metrics.TripPlans.WithLabelValues(provider, "ok").Inc()
	metrics.TripPlanDuration.WithLabelValues(provider).Observe(time.Since(started).Seconds())

	s.logger.WithFields(logrus.Fields{
		"trip_id":       plan.TripID,
		"provider":      provider,
		"total_miles":   plan.TotalDistanceMiles,
		"total_hours":   plan.EstimatedTotalHours,
		"daily_logs":    len(dailyLogs),
		"compliant":     compliance.Compliant,
		"split_sleeper": req.UseSplitSleeper,
	}).Info("Trip plan computed")

	return plan, nil
}

// resolveFigures returns the per-leg distance/duration figures, either from
// the request or from the routing provider.
func (s *TripService) resolveFigures(ctx context.Context, req *models.PlanTripRequest) ([]models.LegFigures, string, error) {
	if len(req.Legs) == 2 {
		return req.Legs, "manual", nil
	}

	route, err := s.router.MultiLegRoute(ctx, req.CurrentLocation, req.PickupLocation, req.DropoffLocation)
	if err != nil {
		return nil, s.provider, fmt.Errorf("failed to route trip: %w", err)
	}

	provider := s.provider
	if route.Fallback {
		provider = "fallback"
	}

	return route.Legs, provider, nil
}

// GetTrip loads a stored trip plan by ID.
func (s *TripService) GetTrip(tripID string) (*models.Trip, error) {
	return s.repo.GetByID(tripID)
}

// ListTrips returns stored trips, newest first.
func (s *TripService) ListTrips(limit, offset int) ([]models.TripListItem, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	return s.repo.List(limit, offset)
}

// DeleteTrip removes a stored trip.
func (s *TripService) DeleteTrip(tripID string) error {
	return s.repo.Delete(tripID)
}

// GenerateELDLogs renders the stored trip's daily logs as a PDF.
func (s *TripService) GenerateELDLogs(tripID string) ([]byte, string, error) {
	trip, err := s.repo.GetByID(tripID)
	if err != nil {
		return nil, "", err
	}

	driver := models.DriverInfo{
		DriverName:    trip.DriverName,
		CarrierName:   trip.CarrierName,
		MainOffice:    trip.MainOffice,
		VehicleNumber: trip.VehicleNumber,
	}

	data, err := s.eldGen.GenerateDailyLogs(trip.Plan.DailyLogs, driver)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate log sheets: %w", err)
	}

	filename := fmt.Sprintf("eld-logs-%s.pdf", trip.ID)
	return data, filename, nil
}

// buildTripRecord flattens the request and computed plan into the stored row.
func buildTripRecord(req *models.PlanTripRequest, plan *models.TripPlan) *models.Trip {
	return &models.Trip{
		ID:               plan.TripID,
		DriverName:       req.DriverInfo.DriverName,
		CarrierName:      req.DriverInfo.CarrierName,
		MainOffice:       req.DriverInfo.MainOffice,
		VehicleNumber:    req.DriverInfo.VehicleNumber,
		CurrentLat:       req.CurrentLocation.Latitude,
		CurrentLon:       req.CurrentLocation.Longitude,
		PickupLat:        req.PickupLocation.Latitude,
		PickupLon:        req.PickupLocation.Longitude,
		DropoffLat:       req.DropoffLocation.Latitude,
		DropoffLon:       req.DropoffLocation.Longitude,
		CurrentCycleUsed: req.CurrentCycleUsed,
		WeeklyMode:       req.Mode(),
		Status:           models.TripStatusPlanned,
		TotalDistance:    plan.TotalDistanceMiles,
		TotalDuration:    plan.EstimatedTotalHours,
		Compliant:        plan.Compliance.Compliant,
		Plan:             models.PlanDocument{TripPlan: *plan},
	}
}

func roundTo(v float64, places int) float64 {
	scale := math.Pow10(places)
	return math.Round(v*scale) / scale
}
