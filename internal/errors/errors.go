// Package errors provides domain-specific error types and sentinel errors
// for improved error handling across the application.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common scenarios.
// Use errors.Is() to check these errors in your code.
var (
	// ErrNotFound indicates a requested resource was not found.
	ErrNotFound = errors.New("resource not found")

	// ErrNoCampus indicates no campus could be detected in a first turn.
	// This is a defined response path, not a failure: the caller renders
	// an explanatory message and the session stays empty.
	ErrNoCampus = errors.New("no campus detected")

	// ErrSessionTerminated indicates a turn arrived after "done".
	ErrSessionTerminated = errors.New("session terminated")

	// ErrRateLimitExceeded indicates rate limit has been exceeded.
	ErrRateLimitExceeded = errors.New("rate limit exceeded")

	// ErrInvalidInput indicates user provided invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrTimeout indicates an operation timed out.
	ErrTimeout = errors.New("operation timed out")

	// ErrContextCanceled indicates context was canceled.
	ErrContextCanceled = errors.New("context canceled")

	// ErrInterpreterDisabled indicates no LLM interpreter is configured.
	ErrInterpreterDisabled = errors.New("interpreter disabled")
)

// ValidationError represents input validation failures.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// LoadError represents an agreement-file load failure with context.
// A failed campus load never aborts the loading of other campuses.
type LoadError struct {
	Path   string
	Campus string
	Err    error
}

func (e *LoadError) Error() string {
	if e.Campus != "" {
		return fmt.Sprintf("load error (campus=%s, path=%s): %v", e.Campus, e.Path, e.Err)
	}
	return fmt.Sprintf("load error (path=%s): %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// NewLoadError creates a new load error.
func NewLoadError(campus, path string, err error) *LoadError {
	return &LoadError{Campus: campus, Path: path, Err: err}
}
