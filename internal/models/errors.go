package models

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfiguration is returned when an operator, kernel or image is built with
	// parameters that cannot be applied.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrDegenerateStatistics is returned when a global pre-pass produces statistics that
	// leave the per-pixel formula undefined.
	ErrDegenerateStatistics = errors.New("degenerate statistics")

	// ErrDegenerateRange is the linear-stretch flavour of ErrDegenerateStatistics.
	ErrDegenerateRange = fmt.Errorf("%w: degenerate range", ErrDegenerateStatistics)
)

// ValidationError represents a parameter validation error
type ValidationError struct {
	Parameter string
	Value     interface{}
	Message   string
}

// NewValidationError creates a new validation error
func NewValidationError(parameter string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Parameter: parameter,
		Value:     value,
		Message:   message,
	}
}

// Error returns the error message
func (ve *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for parameter '%s' with value '%v': %s",
		ve.Parameter, ve.Value, ve.Message)
}

func (ve *ValidationError) Unwrap() error {
	return ErrInvalidConfiguration
}

// StatisticsError reports which operator and channel produced degenerate statistics.
type StatisticsError struct {
	Operator string
	Channel  string
	Err      error
}

func NewStatisticsError(operator, channel string, err error) *StatisticsError {
	return &StatisticsError{
		Operator: operator,
		Channel:  channel,
		Err:      err,
	}
}

func (se *StatisticsError) Error() string {
	return fmt.Sprintf("%s: channel %s: %v", se.Operator, se.Channel, se.Err)
}

func (se *StatisticsError) Unwrap() error {
	return se.Err
}
