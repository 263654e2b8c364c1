package mealdb

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a source was reached but holds no matching meal
	ErrNotFound = errors.New("meal not found")
	// ErrUnauthorized is wrapped by a TransportError when a source answers 401
	ErrUnauthorized = errors.New("unauthorized")
)

// TransportError reports a failed attempt against a single source: network
// failure, timeout, undecodable body or a non-success status.
type TransportError struct {
	Source     string
	Op         string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: status %d: %v", e.Source, e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Source, e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsTransport reports whether err is (or wraps) a TransportError
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
