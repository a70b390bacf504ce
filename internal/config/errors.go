package config

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is matched by every Error.
var ErrInvalidConfig = errors.New("extras: invalid config")

// Error represents a configuration error.
type Error struct {
	Option  string
	Value   any
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("extras: config error for %q (value: %v): %s", e.Option, e.Value, e.Message)
	}

	return fmt.Sprintf("extras: config error for %q: %s", e.Option, e.Message)
}

// Is reports whether the target matches the sentinel error for Error.
func (e *Error) Is(target error) bool {
	return target == ErrInvalidConfig
}

// NewError creates a new Error.
func NewError(option string, value any, message string) *Error {
	return &Error{
		Option:  option,
		Value:   value,
		Message: message,
	}
}
