package domain

import "fmt"

// ValidationError rejects a single request over malformed, missing or
// out-of-range input. It carries the first failing field so the API layer
// can surface it. Never fatal to the process.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError builds a validation error for a field.
func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// ConflictError signals a business-rule conflict: ineligible flight state,
// sold-out flight, cancelling a DONE flight.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// NewConflictError builds a conflict error.
func NewConflictError(format string, args ...any) *ConflictError {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}
