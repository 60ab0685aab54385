package redbus

import (
	"errors"
	"fmt"
)

// Error kinds. Wrapped errors keep the underlying cause, so callers can
// match the kind with errors.Is and still log the driver error.
var (
	ErrConnection = errors.New("connection failure")
	ErrQuery      = errors.New("query failure")
	ErrValidation = errors.New("validation failure")
)

// ErrNotSelected is returned when state or route is left at its placeholder.
var ErrNotSelected = fmt.Errorf("%w: please select State and Route", ErrValidation)

// ConnectionError marks err as a connection failure.
func ConnectionError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrConnection, err)
}

// QueryError marks err as a query failure of the named operation.
func QueryError(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", ErrQuery, op, err)
}
