package hos

import (
	"time"

	"github.com/haulplan/eld-backend/internal/models"
)

// simulationState holds every mutable counter of one schedule computation.
// A fresh state is built per Simulate call and discarded with it, so
// concurrent plan requests never share anything.
type simulationState struct {
	now time.Time

	shiftDrivingHours  float64
	shiftOnDutyHours   float64
	continuousDriving  float64
	totalDistanceMiles float64

	weeklyMax       float64
	weeklyRemaining float64

	// Split sleeper: segment ID of an unmatched first segment, empty when
	// no segment is pending.
	pendingSplitID string

	workReportingLoc   *models.Coordinate
	workReportingSince time.Time
	shortHaulUsed      int
}

func newSimulationState(cfg Config, start time.Time) *simulationState {
	weeklyMax, _ := CycleLimit(cfg.WeeklyMode)
	remaining := weeklyMax - cfg.CurrentCycleUsed
	if remaining < 0 {
		remaining = 0
	}
	return &simulationState{
		now:             start,
		weeklyMax:       weeklyMax,
		weeklyRemaining: remaining,
	}
}

// advance moves the wall clock forward by the given number of hours
func (s *simulationState) advance(hours float64) {
	s.now = s.now.Add(time.Duration(hours * float64(time.Hour)))
}

// chargeCycle consumes weekly-cycle budget, flooring at zero
func (s *simulationState) chargeCycle(hours float64) {
	s.weeklyRemaining -= hours
	if s.weeklyRemaining < 0 {
		s.weeklyRemaining = 0
	}
}

// restoreCycle credits rest back to the weekly-cycle budget, capped at the
// weekly maximum
func (s *simulationState) restoreCycle(hours float64) {
	s.weeklyRemaining += hours
	if s.weeklyRemaining > s.weeklyMax {
		s.weeklyRemaining = s.weeklyMax
	}
}

// resetCycle restores the full weekly budget (34-hour restart)
func (s *simulationState) resetCycle() {
	s.weeklyRemaining = s.weeklyMax
}

// recordWorkReporting pins the work reporting location the first time a
// pickup leg starts; later calls are no-ops.
func (s *simulationState) recordWorkReporting(loc models.Coordinate) {
	if s.workReportingLoc != nil {
		return
	}
	c := loc
	s.workReportingLoc = &c
	s.workReportingSince = s.now
}

// shortHaulEligible reports whether the 16-hour exception can extend the
// current shift: unused this cycle, a known work reporting location, and
// at least the required consecutive days dwelling there.
func (s *simulationState) shortHaulEligible() bool {
	if s.shortHaulUsed > 0 || s.workReportingLoc == nil {
		return false
	}
	return s.now.Sub(s.workReportingSince) >= ShortHaulDwellDays*24*time.Hour
}
