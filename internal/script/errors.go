package script

import (
	"errors"
	"fmt"
)

// Errors for script operations.
var (
	// ErrClosed is returned when running a script on a closed host.
	ErrClosed = errors.New("script host is closed")
)

// Error is a failure while loading or running a script.
type Error struct {
	// Script is the chunk name, usually the file path.
	Script string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("script %s: %v", e.Script, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}
