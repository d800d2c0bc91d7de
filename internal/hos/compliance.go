package hos

import (
	"fmt"

	"github.com/haulplan/eld-backend/internal/models"
)

// CheckCompliance re-derives shift boundaries from the finished timeline
// and audits each closed shift against the fixed 11-hour driving and
// 14-hour on-duty limits. Exceptions are deliberately not re-applied: the
// audit is a strict baseline, stricter than the schedule's own
// exception-aware ceilings, so any exception misuse surfaces here as a
// violation. A trailing shift not yet closed by a qualifying rest is not
// audited.
func CheckCompliance(events []models.DutyEvent) models.ComplianceReport {
	type shift struct {
		drivingHours float64
		onDutyHours  float64
	}

	var shifts []shift
	var current shift
	started := false

	for _, ev := range events {
		switch ev.Status {
		case models.StatusDriving:
			current.drivingHours += ev.DurationHours
			current.onDutyHours += ev.DurationHours
			started = true
		case models.StatusOnDutyNotDriving:
			current.onDutyHours += ev.DurationHours
			started = true
		case models.StatusOffDuty, models.StatusSleeperBerth:
			if ev.DurationHours >= MinOffDutyHours && started {
				shifts = append(shifts, current)
				current = shift{}
				started = false
			}
		}
	}

	violations := []string{}
	for i, sh := range shifts {
		if sh.drivingHours > MaxShiftDrivingHours+floatTolerance {
			violations = append(violations, fmt.Sprintf("Shift %d: exceeded 11-hour driving limit (%.2f hours)", i+1, sh.drivingHours))
		}
		if sh.onDutyHours > MaxShiftOnDutyHours+floatTolerance {
			violations = append(violations, fmt.Sprintf("Shift %d: exceeded 14-hour on-duty limit (%.2f hours)", i+1, sh.onDutyHours))
		}
	}

	return models.ComplianceReport{
		Compliant:   len(violations) == 0,
		Violations:  violations,
		TotalShifts: len(shifts),
	}
}
