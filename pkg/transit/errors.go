package transit

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingParameter is returned when a required query value is empty
	ErrMissingParameter = errors.New("missing required parameter")
	// ErrUpstream matches every *UpstreamError via errors.Is
	ErrUpstream = errors.New("upstream failure")
)

// UpstreamError reports a transport error or a non-success status from the transit API
type UpstreamError struct {
	StatusCode int
	Detail     string
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("API responded with status: %d", e.StatusCode)
	}
	if e.Detail != "" {
		return e.Detail
	}
	return ErrUpstream.Error()
}

func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstream
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
