package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput signals a client error: empty query, missing required field.
	ErrInvalidInput = errors.New("invalid input")
	// ErrStoreUnavailable signals that the storage backend could not serve the request.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrMalformedQuery signals a query the backend refused to parse.
	ErrMalformedQuery = errors.New("malformed query")
)

// InvalidInput wraps a validation message into ErrInvalidInput.
func InvalidInput(format string, args ...any) error {
	return &validationError{msg: fmt.Sprintf(format, args...)}
}

type validationError struct {
	msg string
}

func (e *validationError) Error() string { return ErrInvalidInput.Error() + ": " + e.msg }
func (e *validationError) Unwrap() error { return ErrInvalidInput }
