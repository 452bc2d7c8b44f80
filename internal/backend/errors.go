package backend

import (
	"errors"
	"fmt"
)

var (
	// ErrNetwork covers transport failures and server side errors.
	ErrNetwork = errors.New("backend: network failure")
	// ErrNotFound is returned for 404 responses and reads with an empty body.
	ErrNotFound = errors.New("backend: not found")
	// ErrValidation is returned when the backend rejects a payload or a
	// required field is missing before submission.
	ErrValidation = errors.New("backend: validation failed")
)

// Error describes a failed call.
type Error struct {
	Resource string
	Op       string
	Status   int
	Detail   string
	Err      error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s %s: %v", e.Resource, e.Op, e.Err)
	if e.Status > 0 {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Kind returns the taxonomy label of err for metrics and logs.
func Kind(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrValidation):
		return "validation"
	default:
		return "network"
	}
}

// Required reports a missing required field as a validation error.
func Required(resource, field string) error {
	return &Error{Resource: resource, Op: "validate", Detail: field + " is required", Err: ErrValidation}
}
