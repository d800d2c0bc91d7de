package models

import "time"

// DailyLog is one calendar day of the duty timeline. Events are bucketed
// by the date their start time falls on; an event running past midnight is
// attributed entirely to its start date.
type DailyLog struct {
	Date              time.Time   `json:"date"`
	Events            []DutyEvent `json:"events"`
	TotalDrivingHours float64     `json:"total_driving_hours"`
	TotalOnDutyHours  float64     `json:"total_on_duty_hours"`
	TotalOffDutyHours float64     `json:"total_off_duty_hours"`
	TotalSleeperHours float64     `json:"total_sleeper_berth_hours"`
	TotalDrivingMiles float64     `json:"total_driving_miles"`
}

// ComplianceReport is the result of the strict baseline audit over the
// finished timeline
type ComplianceReport struct {
	Compliant   bool     `json:"compliant"`
	Violations  []string `json:"violations"`
	TotalShifts int      `json:"total_shifts"`
}

// TripSummary condenses the finished timeline for display
type TripSummary struct {
	StartTime          time.Time `json:"start_time"`
	EndTime            time.Time `json:"end_time"`
	TotalDurationHours float64   `json:"total_duration_hours"`
	DrivingHours       float64   `json:"driving_hours"`
	OnDutyHours        float64   `json:"on_duty_hours"`
	RestHours          float64   `json:"rest_hours"`
	NumberOfStops      int       `json:"number_of_stops"`
	RestBreaks         int       `json:"rest_breaks"`
}
