// Package owner enforces the single-goroutine contract of the history
// coordinators.
//
// A Guard records the goroutine that created it. Check reports calls made
// from any other goroutine, either by logging a warning or, in strict mode,
// by panicking with a *Violation.
package owner

import (
	"fmt"

	"github.com/petermattis/goid"

	"github.com/dshills/undoctx/internal/logging"
)

// Violation describes a call made from a goroutine that does not own the guard.
type Violation struct {
	Name   string
	Op     string
	Owner  int64
	Caller int64
}

// Error implements error.
func (v *Violation) Error() string {
	return fmt.Sprintf("%s: %s called from goroutine %d, owned by goroutine %d", v.Name, v.Op, v.Caller, v.Owner)
}

// Guard checks goroutine affinity.
type Guard struct {
	name   string
	gid    int64
	strict bool
	logger *logging.Logger
}

// Current returns the id of the calling goroutine.
func Current() int64 {
	return goid.Get()
}

// New creates a guard owned by the calling goroutine.
// A nil logger is replaced by logging.Null.
func New(name string, strict bool, logger *logging.Logger) *Guard {
	if logger == nil {
		logger = logging.Null
	}
	return &Guard{
		name:   name,
		gid:    Current(),
		strict: strict,
		logger: logger,
	}
}

// Owner returns the id of the owning goroutine.
func (g *Guard) Owner() int64 {
	return g.gid
}

// Check verifies that op is called from the owning goroutine.
// It returns false on a violation in non-strict mode.
func (g *Guard) Check(op string) bool {
	caller := Current()
	if caller == g.gid {
		return true
	}

	v := &Violation{Name: g.name, Op: op, Owner: g.gid, Caller: caller}
	if g.strict {
		panic(v)
	}
	g.logger.Warn("%v", v)
	return false
}
