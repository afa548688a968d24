package tree

import "github.com/dshills/undoctx/internal/logging"

// Option configures a tree during creation.
type Option func(*Tree)

// WithLogger sets the logger used for tree diagnostics.
func WithLogger(l *logging.Logger) Option {
	return func(t *Tree) {
		if l != nil {
			t.logger = l
		}
	}
}

// WithStrictOwner makes calls from a goroutine other than the creator panic
// instead of logging a warning.
func WithStrictOwner() Option {
	return func(t *Tree) {
		t.strict = true
	}
}

// WithRootLabel sets the label of the root node.
func WithRootLabel(label string) Option {
	return func(t *Tree) {
		t.rootLabel = label
	}
}

// WithClock replaces the logical commit counter with a custom stamp source,
// such as wall-clock milliseconds. A source that can repeat values makes
// pre-order tie-breaking observable.
func WithClock(next func() uint64) Option {
	return func(t *Tree) {
		t.clockFn = next
	}
}
