package services

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/haulplan/eld-backend/internal/database"
	"github.com/haulplan/eld-backend/internal/metrics"
)

// defaultCleanupSchedule runs the purge daily at 4 AM.
// Cron format: second minute hour day month weekday
const defaultCleanupSchedule = "0 0 4 * * *"

// CleanupService purges stored trips past the retention window on a
// nightly schedule.
type CleanupService struct {
	cron          *cron.Cron
	repo          *database.TripRepository
	schedule      string
	retentionDays int
	logger        *logrus.Logger
}

// NewCleanupService creates a new CleanupService. An empty schedule falls
// back to the nightly default.
func NewCleanupService(repo *database.TripRepository, schedule string, retentionDays int, logger *logrus.Logger) *CleanupService {
	// Create cron with seconds precision
	c := cron.New(cron.WithSeconds())

	if schedule == "" {
		schedule = defaultCleanupSchedule
	}

	return &CleanupService{
		cron:          c,
		repo:          repo,
		schedule:      schedule,
		retentionDays: retentionDays,
		logger:        logger,
	}
}

// Start schedules the retention job
func (s *CleanupService) Start() error {
	s.logger.Info("Starting cleanup service...")

	_, err := s.cron.AddFunc(s.schedule, s.purgeExpiredTripsJob)
	if err != nil {
		return fmt.Errorf("failed to schedule trip cleanup job: %w", err)
	}
	s.logger.WithFields(logrus.Fields{
		"schedule":       s.schedule,
		"retention_days": s.retentionDays,
	}).Info("Scheduled: Purge expired trips")

	s.cron.Start()
	s.logger.Info("Cleanup service started")

	return nil
}

// Stop stops the scheduler and waits for a running job to finish
func (s *CleanupService) Stop() {
	s.logger.Info("Stopping cleanup service...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Cleanup service stopped")
}

// purgeExpiredTripsJob removes trips older than the retention window
func (s *CleanupService) purgeExpiredTripsJob() {
	s.logger.Info("[CRON] Starting trip cleanup job...")
	startTime := time.Now()

	purged, err := s.PurgeExpiredTrips()
	if err != nil {
		s.logger.WithField("error", err.Error()).Error("[CRON] Trip cleanup failed")
		return
	}

	s.logger.WithFields(logrus.Fields{
		"purged":   purged,
		"duration": time.Since(startTime).String(),
	}).Info("[CRON] Trip cleanup finished")
}

// PurgeExpiredTrips deletes trips created before the retention cutoff and
// returns the number removed.
func (s *CleanupService) PurgeExpiredTrips() (int64, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -s.retentionDays)

	purged, err := s.repo.DeleteOlderThan(cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge expired trips: %w", err)
	}

	metrics.CleanupTripsPurged.Add(float64(purged))
	return purged, nil
}

// RunCleanupNow runs the cleanup job immediately (for testing)
func (s *CleanupService) RunCleanupNow() (int64, error) {
	s.logger.Info("[MANUAL] Running trip cleanup now...")
	return s.PurgeExpiredTrips()
}
