package domain

import "errors"

// Hard-failure errors surfaced by the analytics engine. Everything else
// (missing amounts, owners, timestamps, zero denominators) degrades into
// documented defaults instead of failing.
var (
	// ErrInvalidPeriod is returned for an unrecognized period token.
	// Callers are expected to validate before invoking the engine.
	ErrInvalidPeriod = errors.New("invalid period token")

	// ErrInconsistentStageCatalog is returned when two stages in the same
	// pipeline share a display order
	ErrInconsistentStageCatalog = errors.New("inconsistent stage catalog")
)

// APIError represents a standardized API error with HTTP status code
type APIError struct {
	Type   string            `json:"type"`
	Title  string            `json:"title"`
	Status int               `json:"status"`
	Detail string            `json:"detail,omitempty"`
	Errors map[string]string `json:"errors,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return e.Title
}

// Common error types for RFC 7807 Problem Details
const (
	ErrorTypeValidation  = "validation_error"
	ErrorTypeNotFound    = "not_found"
	ErrorTypeBadRequest  = "bad_request"
	ErrorTypeConflict    = "conflict"
	ErrorTypeInternal    = "internal_error"
	ErrorTypeUnavailable = "service_unavailable"
)
