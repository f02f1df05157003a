package models

import "errors"

// Pipeline error taxonomy. Callers match with errors.Is.
var (
	// ErrInvalidInput rejects malformed caller data before any network call.
	ErrInvalidInput = errors.New("invalid input")
	// ErrSchemaViolation means a model reply failed output schema validation.
	ErrSchemaViolation = errors.New("schema violation")
	// ErrCorrelationFailure means annotations could not be paired safely with candidates.
	ErrCorrelationFailure = errors.New("correlation failure")
	// ErrUpstreamUnavailable covers missing credentials and transport failures.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)
