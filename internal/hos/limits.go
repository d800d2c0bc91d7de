package hos

import "github.com/haulplan/eld-backend/internal/models"

// Federal hours-of-service limits for property-carrying drivers.
const (
	MaxShiftDrivingHours = 11.0
	MaxShiftOnDutyHours  = 14.0

	// AdverseDrivingBonus extends the driving ceiling when the
	// adverse-conditions exception is claimed.
	AdverseDrivingBonus = 2.0

	// ShortHaulOnDutyHours replaces the 14-hour window when the 16-hour
	// short-haul exception is applied.
	ShortHaulOnDutyHours = 16.0

	MinOffDutyHours    = 10.0
	BreakRequiredAfter = 8.0
	BreakDurationHours = 0.5

	AverageSpeedMPH = 60.0

	FuelingIntervalMiles = 1000.0
	FuelingDurationHours = 0.5

	PickupDropoffHours = 1.0
	InspectionHours    = 0.25

	RestartDurationHours  = 34.0
	RestartThresholdHours = 14.0

	// Split sleeper berth is fixed at 7h + 3h.
	SplitSegment1Hours = 7.0
	SplitSegment2Hours = 3.0

	// Days a driver must have been dwelling at the work reporting
	// location before the short-haul exception becomes usable.
	ShortHaulDwellDays = 5
)

// floatTolerance guards the budget comparisons against accumulated
// floating point drift in the increment loop.
const floatTolerance = 1e-9

// CycleLimit returns the weekly hour budget and window length in days for
// the given weekly mode. An unset mode defaults to 70 hours over 8 days.
func CycleLimit(mode models.WeeklyMode) (hours float64, days int) {
	if mode == models.Weekly60h7d {
		return 60, 7
	}
	return 70, 8
}

// Config carries the per-request scheduling options. AirMileException is
// accepted and echoed back to the caller but drives no scheduling branch;
// the 150 air-mile provision exempts a driver from logging entirely rather
// than altering the schedule.
type Config struct {
	CurrentCycleUsed  float64
	WeeklyMode        models.WeeklyMode
	UseSplitSleeper   bool
	AdverseConditions bool
	AirMileException  bool
}
