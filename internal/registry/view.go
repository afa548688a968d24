package registry

import "github.com/dshills/undoctx/internal/history"

// View is a read-only window onto one context's buffer.
// It deliberately has no Undo or Redo: those go through the Coordinator.
type View struct {
	id  string
	buf *history.Buffer
}

// ID returns the context id.
func (v *View) ID() string { return v.id }

// UndoCount returns the number of undo entries in this context.
func (v *View) UndoCount() int { return v.buf.UndoCount() }

// RedoCount returns the number of redo entries in this context.
func (v *View) RedoCount() int { return v.buf.RedoCount() }

// InTransaction returns true if a multi-event is open on this context.
func (v *View) InTransaction() bool { return v.buf.InTransaction() }

// PeekUndo returns info about this context's top undo entry.
func (v *View) PeekUndo() (history.Info, bool) { return v.buf.PeekUndo() }

// PeekRedo returns info about this context's top redo entry.
func (v *View) PeekRedo() (history.Info, bool) { return v.buf.PeekRedo() }

// UndoInfo returns info about this context's undo entries, oldest first.
func (v *View) UndoInfo() []history.Info { return v.buf.UndoInfo() }

// RedoInfo returns info about this context's redo entries, oldest first.
func (v *View) RedoInfo() []history.Info { return v.buf.RedoInfo() }
