package airzone

import (
	"errors"
	"fmt"
)

// ErrNotFound reports that a requested system or zone has no entry in the
// latest device response. Read paths treat it as a normal outcome, not a
// crash.
var ErrNotFound = errors.New("not found")

// APIError reports a transport-level failure: a non-200 status or a failed
// connection. There is no retry; the CLI catches it at the top level.
type APIError struct {
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("airzone: %s: %v", e.Endpoint, e.Err)
	}
	return fmt.Sprintf("airzone: %s: status code %d", e.Endpoint, e.StatusCode)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// ValidationError reports that a requested parameter value violates a
// device-reported constraint. It is distinct from APIError so callers can
// tell "device would reject this" from "could not reach device".
type ValidationError struct {
	Field   string
	Value   any
	Allowed string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %v (allowed: %s)", e.Field, e.Value, e.Allowed)
}
