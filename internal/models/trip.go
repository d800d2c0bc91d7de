package models

import (
	"fmt"
	"time"
)

// WeeklyMode selects the weekly-cycle budget the driver operates under
type WeeklyMode string

const (
	Weekly70h8d WeeklyMode = "70/8"
	Weekly60h7d WeeklyMode = "60/7"
)

// DriverInfo carries the identification printed on daily log sheets
type DriverInfo struct {
	DriverName    string `json:"driver_name" yaml:"driver_name"`
	CarrierName   string `json:"carrier_name" yaml:"carrier_name"`
	MainOffice    string `json:"main_office" yaml:"main_office"`
	VehicleNumber string `json:"vehicle_number" yaml:"vehicle_number"`
}

// PlanTripRequest is the input for a trip plan computation
type PlanTripRequest struct {
	CurrentLocation   Coordinate `json:"current_location" yaml:"current_location" binding:"required"`
	PickupLocation    Coordinate `json:"pickup_location" yaml:"pickup_location" binding:"required"`
	DropoffLocation   Coordinate `json:"dropoff_location" yaml:"dropoff_location" binding:"required"`
	CurrentCycleUsed  float64    `json:"current_cycle_used" yaml:"current_cycle_used"`
	WeeklyMode        WeeklyMode `json:"weekly_mode,omitempty" yaml:"weekly_mode,omitempty"`
	UseSplitSleeper   bool       `json:"use_split_sleeper,omitempty" yaml:"use_split_sleeper,omitempty"`
	AdverseConditions bool       `json:"use_adverse_conditions,omitempty" yaml:"use_adverse_conditions,omitempty"`
	AirMileException  bool       `json:"use_air_mile_exception,omitempty" yaml:"use_air_mile_exception,omitempty"`
	StartTime         *time.Time `json:"start_time,omitempty" yaml:"start_time,omitempty"`

	// Optional explicit leg figures. When present the routing provider is
	// skipped and these are used as-is.
	Legs []LegFigures `json:"legs,omitempty" yaml:"legs,omitempty"`

	DriverInfo DriverInfo `json:"driver_info" yaml:"driver_info"`
}

// Validate validates the plan trip request
func (r *PlanTripRequest) Validate() error {
	for _, c := range []struct {
		name  string
		coord Coordinate
	}{
		{"current_location", r.CurrentLocation},
		{"pickup_location", r.PickupLocation},
		{"dropoff_location", r.DropoffLocation},
	} {
		if c.coord.Latitude < -90 || c.coord.Latitude > 90 {
			return NewValidationError(c.name + ": latitude must be between -90 and 90")
		}
		if c.coord.Longitude < -180 || c.coord.Longitude > 180 {
			return NewValidationError(c.name + ": longitude must be between -180 and 180")
		}
	}

	if r.CurrentCycleUsed < 0 || r.CurrentCycleUsed > 70 {
		return NewValidationError("current_cycle_used must be between 0 and 70")
	}

	switch r.WeeklyMode {
	case "", Weekly70h8d, Weekly60h7d:
	default:
		return NewValidationError("weekly_mode must be one of: 70/8, 60/7")
	}

	if r.WeeklyMode == Weekly60h7d && r.CurrentCycleUsed > 60 {
		return NewValidationError("current_cycle_used must not exceed 60 in 60/7 mode")
	}

	if len(r.Legs) != 0 && len(r.Legs) != 2 {
		return NewValidationError("legs must contain exactly 2 entries when provided")
	}
	for i, leg := range r.Legs {
		if leg.DistanceMiles < 0 {
			return NewValidationError(fmt.Sprintf("legs[%d]: distance_miles must be >= 0", i))
		}
		if leg.DurationHours < 0 {
			return NewValidationError(fmt.Sprintf("legs[%d]: duration_hours must be >= 0", i))
		}
	}

	return nil
}

// Mode returns the requested weekly mode, defaulting to 70/8
func (r *PlanTripRequest) Mode() WeeklyMode {
	if r.WeeklyMode == "" {
		return Weekly70h8d
	}
	return r.WeeklyMode
}

// TripPlan is the full planning result returned to the caller and stored
// alongside the trip record
type TripPlan struct {
	TripID              string           `json:"trip_id"`
	TotalDistanceMiles  float64          `json:"total_distance_miles"`
	TotalDrivingHours   float64          `json:"total_driving_hours"`
	EstimatedTotalHours float64          `json:"estimated_total_hours"`
	WeeklyMode          WeeklyMode       `json:"weekly_mode"`
	SplitSleeperUsed    bool             `json:"split_sleeper_used"`
	AdverseConditions   bool             `json:"adverse_conditions"`
	AirMileException    bool             `json:"air_mile_exception"`
	Legs                []RouteLeg       `json:"route_legs"`
	Schedule            []DutyEvent      `json:"schedule"`
	DailyLogs           []DailyLog       `json:"daily_logs"`
	Compliance          ComplianceReport `json:"hos_compliance"`
	Summary             TripSummary      `json:"summary"`
}

// TripStatus represents the lifecycle state of a stored trip
type TripStatus string

const (
	TripStatusPlanned  TripStatus = "planned"
	TripStatusArchived TripStatus = "archived"
)

// Trip is a stored trip plan record
type Trip struct {
	ID               string       `json:"id" db:"id"`
	DriverName       string       `json:"driver_name" db:"driver_name"`
	CarrierName      string       `json:"carrier_name" db:"carrier_name"`
	MainOffice       string       `json:"main_office" db:"main_office"`
	VehicleNumber    string       `json:"vehicle_number" db:"vehicle_number"`
	CurrentLat       float64      `json:"current_lat" db:"current_lat"`
	CurrentLon       float64      `json:"current_lon" db:"current_lon"`
	PickupLat        float64      `json:"pickup_lat" db:"pickup_lat"`
	PickupLon        float64      `json:"pickup_lon" db:"pickup_lon"`
	DropoffLat       float64      `json:"dropoff_lat" db:"dropoff_lat"`
	DropoffLon       float64      `json:"dropoff_lon" db:"dropoff_lon"`
	CurrentCycleUsed float64      `json:"current_cycle_used" db:"current_cycle_used"`
	WeeklyMode       WeeklyMode   `json:"weekly_mode" db:"weekly_mode"`
	Status           TripStatus   `json:"status" db:"status"`
	TotalDistance    float64      `json:"total_distance_miles" db:"total_distance_miles"`
	TotalDuration    float64      `json:"total_duration_hours" db:"total_duration_hours"`
	Compliant        bool         `json:"compliant" db:"compliant"`
	Plan             PlanDocument `json:"plan" db:"plan"`
	CreatedAt        time.Time    `json:"created_at" db:"created_at"`
}

// TripListItem is the condensed form returned by trip listings
type TripListItem struct {
	ID            string    `json:"id" db:"id"`
	DriverName    string    `json:"driver_name" db:"driver_name"`
	CarrierName   string    `json:"carrier_name" db:"carrier_name"`
	TotalDistance float64   `json:"total_distance_miles" db:"total_distance_miles"`
	TotalDuration float64   `json:"total_duration_hours" db:"total_duration_hours"`
	Compliant     bool      `json:"compliant" db:"compliant"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}
