package script

import (
	"io"

	"github.com/dshills/undoctx/internal/logging"
)

// Option configures a Host.
type Option func(*Host)

// WithLogger sets the logger for script diagnostics.
func WithLogger(l *logging.Logger) Option {
	return func(h *Host) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithOutput redirects the Lua print function.
func WithOutput(w io.Writer) Option {
	return func(h *Host) {
		if w != nil {
			h.out = w
		}
	}
}

// WithIDGenerator sets the source of ids for contexts created without one.
func WithIDGenerator(next func() string) Option {
	return func(h *Host) {
		if next != nil {
			h.newID = next
		}
	}
}
