package models

// DailyHoursEntry is one day of externally supplied on-duty history
type DailyHoursEntry struct {
	Date        string  `json:"date" yaml:"date"`
	OnDutyHours float64 `json:"on_duty_hours" yaml:"on_duty_hours"`
}

// RollingHoursRequest asks for a trailing-window usage summary over the
// supplied history
type RollingHoursRequest struct {
	History    []DailyHoursEntry `json:"history" yaml:"history" binding:"required"`
	WeeklyMode string            `json:"weekly_mode,omitempty" yaml:"weekly_mode,omitempty"`
}

// Validate validates the rolling hours request
func (r *RollingHoursRequest) Validate() error {
	if len(r.History) == 0 {
		return NewValidationError("history must contain at least one entry")
	}
	if r.WeeklyMode != "" && r.WeeklyMode != "70/8" && r.WeeklyMode != "60/7" {
		return NewValidationError("weekly_mode must be one of: 70/8, 60/7")
	}
	for _, entry := range r.History {
		if entry.OnDutyHours < 0 || entry.OnDutyHours > 24 {
			return NewValidationError("history entry " + entry.Date + " has on_duty_hours outside [0, 24]")
		}
	}
	return nil
}

// DayHours is one day inside a rolling-window breakdown
type DayHours struct {
	Date        string  `json:"date"`
	OnDutyHours float64 `json:"on_duty_hours"`
}

// RollingHoursSummary reports weekly-cycle usage over the trailing window
type RollingHoursSummary struct {
	WeeklyMode     string     `json:"weekly_mode"`
	WindowDays     int        `json:"window_days"`
	HoursUsed      float64    `json:"hours_used"`
	HoursAvailable float64    `json:"hours_available"`
	Breakdown      []DayHours `json:"breakdown"`
}
