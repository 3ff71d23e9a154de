// internal/app/system/apperr/apperr.go
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel kinds for errors the core raises. Callers classify with
// errors.Is and the transport layer picks the HTTP status; none of
// these are retried internally.
var (
	// ErrValidation marks malformed input (bad audience shape, unknown
	// attendance status). Caller's fault.
	ErrValidation = errors.New("validation error")

	// ErrPermission marks an authorization failure on a mutation.
	ErrPermission = errors.New("permission denied")

	// ErrInvariant marks an edit that would break a structural
	// guarantee, such as emptying a chat's audience.
	ErrInvariant = errors.New("invariant violation")

	// ErrNotFound marks a missing entity or attendee entry.
	ErrNotFound = errors.New("not found")
)

// Validationf wraps ErrValidation with a formatted message.
func Validationf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrValidation)...)
}

// Permissionf wraps ErrPermission with a formatted message.
func Permissionf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrPermission)...)
}

// Invariantf wraps ErrInvariant with a formatted message.
func Invariantf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrInvariant)...)
}

// NotFoundf wraps ErrNotFound with a formatted message.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
}

// Status maps an error to the HTTP status the transport should return.
// Unclassified errors are internal.
func Status(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrPermission):
		return http.StatusForbidden
	case errors.Is(err, ErrInvariant):
		return http.StatusConflict
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
