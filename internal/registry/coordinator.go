package registry

import (
	"sort"

	"github.com/dshills/undoctx/internal/history"
	"github.com/dshills/undoctx/internal/logging"
	"github.com/dshills/undoctx/internal/owner"
)

// Coordinator owns one history buffer per context id and a global
// undo/redo order spanning all of them.
type Coordinator struct {
	contexts map[string]*history.Buffer

	// Global order: ids of the buffers holding the undoable (redoable)
	// entries, most recent last.
	undoSeq []string
	redoSeq []string

	logger *logging.Logger
	strict bool
	guard  *owner.Guard
}

// New creates an empty coordinator owned by the calling goroutine.
func New(opts ...Option) *Coordinator {
	c := &Coordinator{
		contexts: make(map[string]*history.Buffer),
		logger:   logging.Null,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.WithComponent("registry")
	c.guard = owner.New("registry", c.strict, c.logger)
	return c
}

// CreateContext creates a buffer for id. It is a no-op if id already exists.
// Returns true if a buffer was created.
func (c *Coordinator) CreateContext(id string) bool {
	c.guard.Check("CreateContext")

	if _, ok := c.contexts[id]; ok {
		return false
	}
	c.contexts[id] = history.NewBuffer()
	c.logger.Debug("created context %q", id)
	return true
}

// Context returns a read-only view of the buffer for id.
func (c *Coordinator) Context(id string) (*View, bool) {
	buf, ok := c.contexts[id]
	if !ok {
		return nil, false
	}
	return &View{id: id, buf: buf}, true
}

// Contexts returns all context ids in sorted order.
func (c *Coordinator) Contexts() []string {
	ids := make([]string, 0, len(c.contexts))
	for id := range c.contexts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// lookup returns the buffer for id, logging misses.
func (c *Coordinator) lookup(op, id string) (*history.Buffer, bool) {
	buf, ok := c.contexts[id]
	if !ok {
		c.logger.Debug("%s: unknown context %q", op, id)
	}
	return buf, ok
}

// Register executes cmd in the context id and records it.
// Returns false, without executing cmd, if id is unknown.
// While a multi-event is open on id the command only joins it.
func (c *Coordinator) Register(id string, cmd history.Command) bool {
	c.guard.Check("Register")

	buf, ok := c.lookup("Register", id)
	if !ok {
		return false
	}

	if buf.Register(cmd) {
		c.pushCommitted(id)
	}
	return true
}

// pushCommitted records a new entry on id and invalidates the global redo order.
func (c *Coordinator) pushCommitted(id string) {
	c.undoSeq = append(c.undoSeq, id)
	if len(c.redoSeq) > 0 {
		// Redo depth across buffers always equals len(redoSeq).
		for _, rid := range c.redoSeq {
			c.contexts[rid].ClearRedo()
		}
		c.redoSeq = nil
	}
}

// Undo undoes the most recent entry across all contexts.
// Returns false if there is nothing to undo.
func (c *Coordinator) Undo() bool {
	c.guard.Check("Undo")

	if len(c.undoSeq) == 0 {
		return false
	}

	id := c.undoSeq[len(c.undoSeq)-1]
	buf, ok := c.lookup("Undo", id)
	if !ok || !buf.Undo() {
		c.logger.Error("global undo order out of sync at context %q", id)
		c.undoSeq = c.undoSeq[:len(c.undoSeq)-1]
		return false
	}

	// Popped only after the buffer succeeded; a panicking command keeps
	// both orders intact.
	c.undoSeq = c.undoSeq[:len(c.undoSeq)-1]
	c.redoSeq = append(c.redoSeq, id)
	c.logger.Debug("undo in context %q", id)
	return true
}

// Redo redoes the most recently undone entry across all contexts.
// Returns false if there is nothing to redo.
func (c *Coordinator) Redo() bool {
	c.guard.Check("Redo")

	if len(c.redoSeq) == 0 {
		return false
	}

	id := c.redoSeq[len(c.redoSeq)-1]
	buf, ok := c.lookup("Redo", id)
	if !ok || !buf.Redo() {
		c.logger.Error("global redo order out of sync at context %q", id)
		c.redoSeq = c.redoSeq[:len(c.redoSeq)-1]
		return false
	}

	// Popped only after the buffer succeeded; a panicking command keeps
	// both orders intact.
	c.redoSeq = c.redoSeq[:len(c.redoSeq)-1]
	c.undoSeq = append(c.undoSeq, id)
	c.logger.Debug("redo in context %q", id)
	return true
}

// StartMultiEvent starts a transaction on id.
// Returns false if id is unknown.
func (c *Coordinator) StartMultiEvent(id string) bool {
	c.guard.Check("StartMultiEvent")

	buf, ok := c.lookup("StartMultiEvent", id)
	if !ok {
		return false
	}
	buf.StartTransaction()
	return true
}

// EndMultiEvent ends the transaction on id.
// Returns true only if a non-empty transaction was committed; an empty one
// leaves the global order untouched.
func (c *Coordinator) EndMultiEvent(id string) bool {
	c.guard.Check("EndMultiEvent")

	buf, ok := c.lookup("EndMultiEvent", id)
	if !ok {
		return false
	}

	if !buf.EndTransaction() {
		return false
	}
	c.pushCommitted(id)
	return true
}

// CancelMultiEvent drops the transaction on id without committing it.
// Commands already registered stay executed.
func (c *Coordinator) CancelMultiEvent(id string) bool {
	c.guard.Check("CancelMultiEvent")

	buf, ok := c.lookup("CancelMultiEvent", id)
	if !ok {
		return false
	}
	buf.CancelTransaction()
	return true
}

// CanUndo returns true if a global undo is available.
func (c *Coordinator) CanUndo() bool {
	return len(c.undoSeq) > 0
}

// CanRedo returns true if a global redo is available.
func (c *Coordinator) CanRedo() bool {
	return len(c.redoSeq) > 0
}

// UndoDepth returns the number of globally undoable entries.
func (c *Coordinator) UndoDepth() int {
	return len(c.undoSeq)
}

// RedoDepth returns the number of globally redoable entries.
func (c *Coordinator) RedoDepth() int {
	return len(c.redoSeq)
}

// PeekUndo returns the context id and entry info of the next global undo.
func (c *Coordinator) PeekUndo() (string, history.Info, bool) {
	if len(c.undoSeq) == 0 {
		return "", history.Info{}, false
	}
	id := c.undoSeq[len(c.undoSeq)-1]
	info, ok := c.contexts[id].PeekUndo()
	return id, info, ok
}

// PeekRedo returns the context id and entry info of the next global redo.
func (c *Coordinator) PeekRedo() (string, history.Info, bool) {
	if len(c.redoSeq) == 0 {
		return "", history.Info{}, false
	}
	id := c.redoSeq[len(c.redoSeq)-1]
	info, ok := c.contexts[id].PeekRedo()
	return id, info, ok
}
