package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is() checking. Both are registration-time
// failures: they abort the registration they occur in and never surface
// during probe execution.
var (
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrEndpointResolution   = errors.New("endpoint resolution failed")
)

// ConfigurationError reports an invalid declarative probe field (currently
// only the URI scheme is validated). Use errors.Is(err, ErrInvalidConfiguration)
// for simple checks, or errors.As(err, &cerr) to access the offending field.
type ConfigurationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: %s %q: %s", ErrInvalidConfiguration.Error(), e.Field, e.Value, e.Reason)
}

func (e *ConfigurationError) Unwrap() error {
	return ErrInvalidConfiguration
}

// ResolutionError reports a failure to resolve a logical endpoint name to a
// port at probe registration time.
type ResolutionError struct {
	Endpoint string
	Err      error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("%s: endpoint %q: %v", ErrEndpointResolution.Error(), e.Endpoint, e.Err)
}

func (e *ResolutionError) Unwrap() []error {
	return []error{ErrEndpointResolution, e.Err}
}
