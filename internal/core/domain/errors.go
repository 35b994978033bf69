package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every failure of an analysis or lookup matches exactly one of
// these through errors.Is.
var (
	ErrInvalidBounds   = errors.New("invalid bounds")
	ErrUpstreamRequest = errors.New("upstream request failed")
	ErrUpstreamStatus  = errors.New("upstream returned non-success status")
	ErrUpstreamParse   = errors.New("upstream response could not be parsed")
)

// UpstreamError describes a failed call to an external data source.
type UpstreamError struct {
	Source     string // display name, e.g. "Overpass" or "Nominatim"
	Kind       error  // one of ErrUpstreamRequest, ErrUpstreamStatus, ErrUpstreamParse
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	switch e.Kind {
	case ErrUpstreamStatus:
		return fmt.Sprintf("%s non-OK status: %d", e.Source, e.StatusCode)
	case ErrUpstreamParse:
		return fmt.Sprintf("%s JSON parse error: %v", e.Source, e.Err)
	default:
		return fmt.Sprintf("%s request error: %v", e.Source, e.Err)
	}
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *UpstreamError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// ErrorKind returns a short label for err's kind, used for metrics and API
// error codes.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidBounds):
		return "invalid_bounds"
	case errors.Is(err, ErrUpstreamStatus):
		return "upstream_status"
	case errors.Is(err, ErrUpstreamParse):
		return "upstream_parse"
	case errors.Is(err, ErrUpstreamRequest):
		return "upstream_request"
	default:
		return "internal"
	}
}
