package hos

import (
	"math"
	"sort"
	"time"

	"github.com/haulplan/eld-backend/internal/models"
)

// RollingHours computes weekly-cycle usage over the trailing 7- or 8-day
// window from an externally supplied history. Entries with unparseable
// dates are skipped individually; a history with no parseable entry at all
// is reported as ErrNoValidLogs.
func RollingHours(history []models.DailyHoursEntry, mode models.WeeklyMode) (*models.RollingHoursSummary, error) {
	weeklyMax, windowDays := CycleLimit(mode)
	if mode == "" {
		mode = models.Weekly70h8d
	}

	type dayEntry struct {
		date  time.Time
		raw   string
		hours float64
	}

	valid := make([]dayEntry, 0, len(history))
	for _, entry := range history {
		parsed, err := time.Parse("2006-01-02", entry.Date)
		if err != nil {
			continue
		}
		valid = append(valid, dayEntry{date: parsed, raw: entry.Date, hours: entry.OnDutyHours})
	}
	if len(valid) == 0 {
		return nil, models.ErrNoValidLogs
	}

	sort.Slice(valid, func(i, j int) bool { return valid[i].date.Before(valid[j].date) })

	if len(valid) > windowDays {
		valid = valid[len(valid)-windowDays:]
	}

	var used float64
	breakdown := make([]models.DayHours, 0, len(valid))
	for _, day := range valid {
		used += day.hours
		breakdown = append(breakdown, models.DayHours{Date: day.raw, OnDutyHours: day.hours})
	}

	return &models.RollingHoursSummary{
		WeeklyMode:     string(mode),
		WindowDays:     windowDays,
		HoursUsed:      used,
		HoursAvailable: math.Max(0, weeklyMax-used),
		Breakdown:      breakdown,
	}, nil
}
