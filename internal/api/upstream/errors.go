package upstream

import (
	"errors"
	"fmt"
)

// ErrMissingCredentials is returned before any call is made when a provider has no API key.
var ErrMissingCredentials = errors.New("missing credentials")

// UpstreamDataError describes a failed call to a third-party data source.
// It is absorbed by the best-effort fetchers and never reaches the caller.
type UpstreamDataError struct {
	Source string
	Status int
	Err    error
}

func (e *UpstreamDataError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Source, e.Status, e.Err)
	}
	return e.Source + ": " + e.Err.Error()
}

func (e *UpstreamDataError) Unwrap() error {
	return e.Err
}

func NewUpstreamDataError(source string, status int, err error) *UpstreamDataError {
	return &UpstreamDataError{
		Source: source,
		Status: status,
		Err:    err,
	}
}
