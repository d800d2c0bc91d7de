package models

import "errors"

// ErrInsufficientInput is returned when a plan request does not carry
// enough waypoints or route legs to simulate.
var ErrInsufficientInput = errors.New("insufficient input: at least one route leg is required")

// ErrNoValidLogs is returned when a rolling-hours history contains no
// parseable entries at all.
var ErrNoValidLogs = errors.New("no valid daily log entries in history")

// ErrTripNotFound is returned when a trip ID does not exist in storage.
var ErrTripNotFound = errors.New("trip not found")

// ValidationError represents a request validation error
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a validation error with the given message
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}
