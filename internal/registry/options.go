package registry

import "github.com/dshills/undoctx/internal/logging"

// Option configures a Coordinator during creation.
type Option func(*Coordinator)

// WithLogger sets the logger used for coordinator diagnostics.
func WithLogger(l *logging.Logger) Option {
	return func(c *Coordinator) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithStrictOwner makes calls from a goroutine other than the creator panic
// instead of logging a warning.
func WithStrictOwner() Option {
	return func(c *Coordinator) {
		c.strict = true
	}
}
