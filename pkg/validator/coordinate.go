package validator

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrEmptyCoordinate indicates the coordinate string is empty
	ErrEmptyCoordinate = errors.New("coordinate cannot be empty")

	// ErrInvalidFormat indicates the coordinate is not "lat,lon"
	ErrInvalidFormat = errors.New("coordinate must be in 'lat,lon' format")

	// ErrLatitudeRange indicates latitude is outside [-90, 90]
	ErrLatitudeRange = errors.New("latitude must be between -90 and 90")

	// ErrLongitudeRange indicates longitude is outside [-180, 180]
	ErrLongitudeRange = errors.New("longitude must be between -180 and 180")
)

// CoordinateValidator parses and validates "lat,lon" coordinate strings
type CoordinateValidator struct{}

// NewCoordinateValidator creates a new coordinate validator instance
func NewCoordinateValidator() *CoordinateValidator {
	return &CoordinateValidator{}
}

// Parse parses a coordinate string such as "41.8781,-87.6298".
// Accepts surrounding whitespace and a space after the comma.
// Returns latitude and longitude, and an error if invalid.
func (v *CoordinateValidator) Parse(coord string) (float64, float64, error) {
	if strings.TrimSpace(coord) == "" {
		return 0, 0, ErrEmptyCoordinate
	}

	parts := strings.Split(coord, ",")
	if len(parts) != 2 {
		return 0, 0, ErrInvalidFormat
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, ErrInvalidFormat
	}

	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, ErrInvalidFormat
	}

	if err := v.Validate(lat, lon); err != nil {
		return 0, 0, err
	}

	return lat, lon, nil
}

// Validate checks that latitude and longitude are within range
func (v *CoordinateValidator) Validate(lat, lon float64) error {
	if lat < -90 || lat > 90 {
		return ErrLatitudeRange
	}
	if lon < -180 || lon > 180 {
		return ErrLongitudeRange
	}
	return nil
}

// Format formats a coordinate pair in the standard "lat,lon" display format
func (v *CoordinateValidator) Format(lat, lon float64) string {
	return fmt.Sprintf("%.4f,%.4f", lat, lon)
}

// IsValid is a convenience method that returns true if the string parses
func (v *CoordinateValidator) IsValid(coord string) bool {
	_, _, err := v.Parse(coord)
	return err == nil
}

// MustParse parses and panics if invalid (use for testing only)
func (v *CoordinateValidator) MustParse(coord string) (float64, float64) {
	lat, lon, err := v.Parse(coord)
	if err != nil {
		panic(fmt.Sprintf("invalid coordinate %s: %v", coord, err))
	}
	return lat, lon
}
