package hos

import (
	"time"

	"github.com/haulplan/eld-backend/internal/models"
)

// AggregateDailyLogs buckets the finished timeline into per-calendar-day
// logs, ordered by date. An event belongs to the day its start time falls
// on; events running past midnight are attributed entirely to their start
// date. The four status totals are disjoint, so they sum to the day's
// total event duration.
func AggregateDailyLogs(events []models.DutyEvent) []models.DailyLog {
	if len(events) == 0 {
		return nil
	}

	var logs []models.DailyLog
	for _, ev := range events {
		day := midnight(ev.StartTime)

		if len(logs) == 0 || day.After(logs[len(logs)-1].Date) {
			logs = append(logs, models.DailyLog{Date: day})
		}
		cur := &logs[len(logs)-1]

		cur.Events = append(cur.Events, ev)
		switch ev.Status {
		case models.StatusDriving:
			cur.TotalDrivingHours += ev.DurationHours
			cur.TotalDrivingMiles += ev.DistanceMiles
		case models.StatusOnDutyNotDriving:
			cur.TotalOnDutyHours += ev.DurationHours
		case models.StatusOffDuty:
			cur.TotalOffDutyHours += ev.DurationHours
		case models.StatusSleeperBerth:
			cur.TotalSleeperHours += ev.DurationHours
		}
	}

	return logs
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
