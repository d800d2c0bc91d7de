package hos

import (
	"math"
	"time"

	"github.com/haulplan/eld-backend/internal/models"
)

// Summarize condenses the finished timeline for display. On-duty hours
// include driving; rest hours cover both off-duty and sleeper berth time.
// Stops count fueling stops and 30-minute breaks; rest breaks count every
// rest-selection event, split segments and restarts included.
func Summarize(events []models.DutyEvent, startTime time.Time) models.TripSummary {
	if len(events) == 0 {
		return models.TripSummary{StartTime: startTime, EndTime: startTime}
	}

	var driving, onDuty, rest float64
	var stops, restBreaks int

	for _, ev := range events {
		switch ev.Status {
		case models.StatusDriving:
			driving += ev.DurationHours
			onDuty += ev.DurationHours
		case models.StatusOnDutyNotDriving:
			onDuty += ev.DurationHours
		case models.StatusOffDuty, models.StatusSleeperBerth:
			rest += ev.DurationHours
		}

		if ev.Activity == "Fueling" || ev.Activity == "30-Minute Break" {
			stops++
		}
		if ev.Rest != nil {
			restBreaks++
		}
	}

	total := events[len(events)-1].EndOffsetHours

	return models.TripSummary{
		StartTime:          startTime,
		EndTime:            startTime.Add(time.Duration(total * float64(time.Hour))),
		TotalDurationHours: round1(total),
		DrivingHours:       round1(driving),
		OnDutyHours:        round1(onDuty),
		RestHours:          round1(rest),
		NumberOfStops:      stops,
		RestBreaks:         restBreaks,
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
