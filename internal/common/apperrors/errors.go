// Package apperrors holds the error kinds shared by the OTP and membership
// services and their mapping onto HTTP statuses.
package apperrors

import (
	"errors"
	"net/http"
	"sort"
	"strings"
)

var (
	ErrAlreadyRegistered      = errors.New("this phone number is already registered")
	ErrMessagingNotConfigured = errors.New("messaging provider is not configured")
	ErrTooManyRequests        = errors.New("too many OTP requests, please try again later")
	ErrStorageWriteFailed     = errors.New("failed to save record")

	ErrOTPNotFound  = errors.New("no pending OTP found, please request a new OTP")
	ErrOTPExpired   = errors.New("OTP has expired, please request a new OTP")
	ErrOTPMismatch  = errors.New("invalid OTP")
	ErrInvalidPhone = errors.New("phone number is required")

	ErrPhoneNotVerified    = errors.New("phone number has not been verified")
	ErrUnderage            = errors.New("applicant must be at least 18 years old")
	ErrApplicationNotFound = errors.New("application not found")
	ErrInvalidStatus       = errors.New("invalid application status")

	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthorized       = errors.New("unauthorized")
)

// ValidationError reports input that failed server-side checks, keyed by field
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError creates a ValidationError for a single field
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// HTTPStatus maps a service error to the response status
func HTTPStatus(err error) int {
	var vErr *ValidationError
	switch {
	case errors.As(err, &vErr),
		errors.Is(err, ErrUnderage),
		errors.Is(err, ErrInvalidStatus),
		errors.Is(err, ErrInvalidPhone),
		errors.Is(err, ErrOTPMismatch):
		return http.StatusBadRequest
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrPhoneNotVerified):
		return http.StatusForbidden
	case errors.Is(err, ErrOTPNotFound), errors.Is(err, ErrApplicationNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrAlreadyRegistered):
		return http.StatusConflict
	case errors.Is(err, ErrOTPExpired):
		return http.StatusGone
	case errors.Is(err, ErrTooManyRequests):
		return http.StatusTooManyRequests
	case errors.Is(err, ErrMessagingNotConfigured):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the text safe to show a client. Storage and
// unexpected failures are collapsed to a generic message.
func PublicMessage(err error) string {
	if HTTPStatus(err) == http.StatusInternalServerError {
		if errors.Is(err, ErrStorageWriteFailed) {
			return ErrStorageWriteFailed.Error()
		}
		return "internal server error"
	}
	return err.Error()
}
