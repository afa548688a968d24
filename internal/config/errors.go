package config

import (
	"errors"
	"fmt"
)

// Errors returned by configuration operations.
var (
	// ErrUnsupportedFormat indicates a file extension with no decoder.
	ErrUnsupportedFormat = errors.New("unsupported config format")

	// ErrInvalidMode indicates a mode other than registry or tree.
	ErrInvalidMode = errors.New("invalid mode")

	// ErrInvalidLogLevel indicates an unknown log level name.
	ErrInvalidLogLevel = errors.New("invalid log level")

	// ErrDuplicateNode indicates two nodes or contexts share a name.
	ErrDuplicateNode = errors.New("duplicate node")

	// ErrUnknownParent indicates a node names a parent not declared before it.
	ErrUnknownParent = errors.New("unknown parent")

	// ErrMultipleRoots indicates more than one node has no parent.
	ErrMultipleRoots = errors.New("multiple root nodes")
)

// ParseError represents an error while parsing a configuration file.
type ParseError struct {
	// Path is the file path that failed to parse.
	Path string
	// Message describes the parse error.
	Message string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}
