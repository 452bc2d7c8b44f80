package shared

import (
	"context"
	"errors"

	"github.com/synexis/synexis-admin/internal/backend"
)

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidID is returned for non-positive or malformed identifiers.
	ErrInvalidID = errors.New("invalid id")
	// ErrBadForm is returned when a submitted form cannot be parsed.
	ErrBadForm = errors.New("malformed form")
	// ErrCSRFTokenMissing occurs when CSRF token missing.
	ErrCSRFTokenMissing = errors.New("csrf token missing")
	// ErrCSRFTokenMismatch occurs when CSRF tokens do not match.
	ErrCSRFTokenMismatch = errors.New("csrf token mismatch")
)

// UserSafeMessage turns an error into text that can be shown in a
// notification without leaking internals.
func UserSafeMessage(err error) string {
	if err == nil {
		return ""
	}
	var fields FieldErrors
	if errors.As(err, &fields) {
		return fields.Summary()
	}
	var callErr *backend.Error
	switch {
	case errors.Is(err, backend.ErrValidation):
		if errors.As(err, &callErr) && callErr.Detail != "" {
			return callErr.Detail
		}
		return "Please check the form and try again."
	case errors.Is(err, backend.ErrNotFound), errors.Is(err, ErrNotFound):
		return "The requested record could not be found."
	case errors.Is(err, ErrInvalidID):
		return "The record identifier is not valid."
	case errors.Is(err, ErrBadForm):
		return "The form could not be read. Please try again."
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, backend.ErrNetwork):
		return "The server could not be reached. Please try again."
	default:
		return "Something went wrong. Please try again."
	}
}
