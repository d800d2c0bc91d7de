package models

import "time"

// Coordinate is a geographic point in decimal degrees
type Coordinate struct {
	Latitude  float64 `json:"lat" yaml:"lat" db:"latitude"`
	Longitude float64 `json:"lon" yaml:"lon" db:"longitude"`
	Address   string  `json:"address,omitempty" yaml:"address,omitempty" db:"address"`
}

// LegKind identifies which stage of the trip a route leg covers
type LegKind string

const (
	LegToPickup  LegKind = "to_pickup"
	LegToDropoff LegKind = "to_dropoff"
)

// RouteLeg is one stage of the trip as returned by the routing provider.
// DurationHours is the provider's nominal estimate; the schedule recomputes
// driving time from distance at the fixed average speed.
type RouteLeg struct {
	Kind          LegKind    `json:"kind"`
	Start         Coordinate `json:"start"`
	End           Coordinate `json:"end"`
	DistanceMiles float64    `json:"distance_miles"`
	DurationHours float64    `json:"duration_hours"`
	Description   string     `json:"description"`
}

// LegFigures carries the raw distance/duration figures for one leg as
// produced by the routing provider (or its fallback).
type LegFigures struct {
	DistanceMiles float64 `json:"distance_miles" yaml:"distance_miles"`
	DurationHours float64 `json:"duration_hours" yaml:"duration_hours"`
	Fallback      bool    `json:"fallback,omitempty" yaml:"fallback,omitempty"`
}

// DutyStatus is the regulatory classification of a duty event
type DutyStatus string

const (
	StatusOffDuty          DutyStatus = "off_duty"
	StatusSleeperBerth     DutyStatus = "sleeper_berth"
	StatusDriving          DutyStatus = "driving"
	StatusOnDutyNotDriving DutyStatus = "on_duty_not_driving"
)

// RestKind distinguishes the rest strategies the schedule can select
type RestKind string

const (
	RestSplitSegment1 RestKind = "split_sleeper_segment_1"
	RestSplitSegment2 RestKind = "split_sleeper_segment_2"
	RestFullRestart   RestKind = "full_restart"
	RestFull          RestKind = "full_rest"
)

// RestBreak carries the metadata attached to a rest-selection event.
// Split-sleeper segments are linked to each other through SegmentID and
// PairedWith; ExcludedFromWindow marks a segment that does not count
// against the 14-hour on-duty window.
type RestBreak struct {
	Kind               RestKind `json:"kind"`
	SegmentID          string   `json:"segment_id,omitempty"`
	PairedWith         string   `json:"paired_with,omitempty"`
	ExcludedFromWindow bool     `json:"excluded_from_window,omitempty"`
}

// DutyEvent is one entry in the trip duty timeline. StartOffsetHours and
// EndOffsetHours are cumulative hours from trip start, assigned in a single
// pass after the full timeline is built.
type DutyEvent struct {
	Activity         string     `json:"activity"`
	Status           DutyStatus `json:"status"`
	StartTime        time.Time  `json:"start_time"`
	DurationHours    float64    `json:"duration_hours"`
	DistanceMiles    float64    `json:"distance_miles,omitempty"`
	Location         Coordinate `json:"location"`
	LocationName     string     `json:"location_name,omitempty"`
	Rest             *RestBreak `json:"rest,omitempty"`
	StartOffsetHours float64    `json:"start_offset_hours"`
	EndOffsetHours   float64    `json:"end_offset_hours"`
}

// IsRest reports whether the event is a qualifying rest period of at
// least the given number of hours
func (e *DutyEvent) IsRest(minHours float64) bool {
	if e.Status != StatusOffDuty && e.Status != StatusSleeperBerth {
		return false
	}
	return e.DurationHours >= minHours
}
