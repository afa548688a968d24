package history

// Buffer manages undo/redo state for one context.
//
// A Buffer is not safe for concurrent use. Commands run on the caller's
// goroutine and must complete before the call returns.
type Buffer struct {
	undoStack []*Entry
	redoStack []*Entry

	// Transaction state
	inTx   bool
	txCmds []Command

	stamp    func() uint64
	onCommit func(*Entry)
}

// NewBuffer creates a new, empty history buffer.
func NewBuffer(opts ...Option) *Buffer {
	b := &Buffer{}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Register executes cmd and records it.
// While a transaction is in progress the command is only accumulated and
// Register returns false. Otherwise it is pushed as a single entry, the redo
// stack is cleared and Register returns true.
func (b *Buffer) Register(cmd Command) bool {
	cmd.Execute()

	if b.inTx {
		b.txCmds = append(b.txCmds, cmd)
		return false
	}

	b.commit(Single(cmd))
	return true
}

// commit stamps and pushes an entry, then clears the redo stack.
func (b *Buffer) commit(e *Entry) {
	if b.stamp != nil {
		e.Stamp = b.stamp()
	}
	b.undoStack = append(b.undoStack, e)
	b.redoStack = nil

	if b.onCommit != nil {
		b.onCommit(e)
	}
}

// Undo reverts the most recent entry and moves it to the redo stack.
// Returns false if there is nothing to undo. The entry is only moved once
// Revert returns, so a panicking command leaves it on the undo stack.
func (b *Buffer) Undo() bool {
	if len(b.undoStack) == 0 {
		return false
	}

	e := b.undoStack[len(b.undoStack)-1]
	e.Revert()
	b.undoStack = b.undoStack[:len(b.undoStack)-1]
	b.redoStack = append(b.redoStack, e)
	return true
}

// Redo re-applies the most recently undone entry and moves it back to the
// undo stack. Returns false if there is nothing to redo. A panicking command
// leaves the entry on the redo stack.
func (b *Buffer) Redo() bool {
	if len(b.redoStack) == 0 {
		return false
	}

	e := b.redoStack[len(b.redoStack)-1]
	e.Apply()
	b.redoStack = b.redoStack[:len(b.redoStack)-1]
	b.undoStack = append(b.undoStack, e)
	return true
}

// StartTransaction begins accumulating commands into one entry.
// Transactions do not nest: starting while one is in progress discards the
// accumulated commands and starts over. Discarded commands stay executed.
func (b *Buffer) StartTransaction() {
	b.inTx = true
	b.txCmds = nil
}

// EndTransaction commits the accumulated commands as one group entry.
// Returns true only if something was committed. The transaction state is
// reset in every case.
func (b *Buffer) EndTransaction() bool {
	committed := false
	if b.inTx && len(b.txCmds) > 0 {
		b.commit(Group(b.txCmds))
		committed = true
	}

	b.inTx = false
	b.txCmds = nil
	return committed
}

// CancelTransaction ends a transaction without adding it to history.
// Note: Commands already executed still affect host state!
func (b *Buffer) CancelTransaction() {
	b.inTx = false
	b.txCmds = nil
}

// InTransaction returns true if a transaction is in progress.
func (b *Buffer) InTransaction() bool {
	return b.inTx
}

// Pending returns the number of commands accumulated in the current transaction.
func (b *Buffer) Pending() int {
	return len(b.txCmds)
}

// CanUndo returns true if undo is available.
func (b *Buffer) CanUndo() bool {
	return len(b.undoStack) > 0
}

// CanRedo returns true if redo is available.
func (b *Buffer) CanRedo() bool {
	return len(b.redoStack) > 0
}

// UndoCount returns the number of undo entries available.
func (b *Buffer) UndoCount() int {
	return len(b.undoStack)
}

// RedoCount returns the number of redo entries available.
func (b *Buffer) RedoCount() int {
	return len(b.redoStack)
}

// ClearRedo drops every redoable entry.
func (b *Buffer) ClearRedo() {
	b.redoStack = nil
}

// Clear removes all undo/redo history and any transaction in progress.
func (b *Buffer) Clear() {
	b.undoStack = nil
	b.redoStack = nil
	b.inTx = false
	b.txCmds = nil
}

// PeekUndo returns info about the next undo entry without removing it.
func (b *Buffer) PeekUndo() (Info, bool) {
	if len(b.undoStack) == 0 {
		return Info{}, false
	}
	return b.undoStack[len(b.undoStack)-1].Info(), true
}

// PeekRedo returns info about the next redo entry without removing it.
func (b *Buffer) PeekRedo() (Info, bool) {
	if len(b.redoStack) == 0 {
		return Info{}, false
	}
	return b.redoStack[len(b.redoStack)-1].Info(), true
}

// UndoInfo returns info about available undo entries, oldest first.
func (b *Buffer) UndoInfo() []Info {
	return infos(b.undoStack)
}

// RedoInfo returns info about available redo entries, oldest first.
func (b *Buffer) RedoInfo() []Info {
	return infos(b.redoStack)
}

func infos(stack []*Entry) []Info {
	result := make([]Info, len(stack))
	for i, e := range stack {
		result[i] = e.Info()
	}
	return result
}
