package api

import (
	"errors"
	"net/http"
)

// ValidationError reports missing or malformed request fields.
type ValidationError struct {
	Message string
	Fields  []string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(message string, fields ...string) *ValidationError {
	return &ValidationError{Message: message, Fields: fields}
}

// NotFoundError reports a destination that could not be resolved.
type NotFoundError struct {
	Query string
}

func (e *NotFoundError) Error() string {
	return "Location not found: " + e.Query
}

// GenerationError reports a failed model call or an unusable model output.
type GenerationError struct {
	Message string
	Details string
	Err     error
}

func (e *GenerationError) Error() string {
	if e.Details == "" {
		return e.Message
	}
	return e.Message + ": " + e.Details
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// NewGenerationError wraps cause; its message becomes the response details.
func NewGenerationError(message string, cause error) *GenerationError {
	ge := &GenerationError{Message: message, Err: cause}
	if cause != nil {
		ge.Details = cause.Error()
	}
	return ge
}

// RateLimitError is returned when a client exceeds the request throttle.
type RateLimitError struct{}

func (e *RateLimitError) Error() string {
	return "Too many requests"
}

// UnexpectedError wraps anything that escaped the other categories.
type UnexpectedError struct {
	Message string
	Err     error
}

func (e *UnexpectedError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *UnexpectedError) Unwrap() error {
	return e.Err
}

// StatusFor maps an error onto its HTTP status code.
func StatusFor(err error) int {
	var ve *ValidationError
	var nf *NotFoundError
	var ge *GenerationError
	var rl *RateLimitError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &ve), errors.As(err, &nf):
		return http.StatusBadRequest
	case errors.As(err, &rl):
		return http.StatusTooManyRequests
	case errors.As(err, &ge):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
