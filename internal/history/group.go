package history

// TxScope provides a convenient way to group commands using defer.
// Usage:
//
//	func renameAll(b *Buffer, items []*Item) {
//	    defer b.TransactionScope().End()
//	    for _, it := range items {
//	        b.Register(rename(it))
//	    }
//	}
type TxScope struct {
	buffer *Buffer
	active bool
}

// TransactionScope starts a new transaction scope.
// Call End() or use with defer to properly close the transaction.
func (b *Buffer) TransactionScope() *TxScope {
	b.StartTransaction()
	return &TxScope{
		buffer: b,
		active: true,
	}
}

// End ends the transaction scope and reports whether an entry was committed.
// Safe to call multiple times; only the first call has effect.
func (s *TxScope) End() bool {
	if !s.active {
		return false
	}
	s.active = false
	return s.buffer.EndTransaction()
}

// Cancel cancels the scope without committing an entry.
// Note: Commands already executed still affect host state.
func (s *TxScope) Cancel() {
	if s.active {
		s.buffer.CancelTransaction()
		s.active = false
	}
}

// Transaction runs fn within a transaction.
// If fn returns an error, the transaction is cancelled and the error returned.
// Otherwise the transaction is ended normally.
func (b *Buffer) Transaction(fn func() error) error {
	b.StartTransaction()

	if err := fn(); err != nil {
		b.CancelTransaction()
		return err
	}

	b.EndTransaction()
	return nil
}

// RegisterGrouped registers several commands as a single undo step.
// A single command is registered on its own.
func (b *Buffer) RegisterGrouped(cmds ...Command) bool {
	switch len(cmds) {
	case 0:
		return false
	case 1:
		return b.Register(cmds[0])
	}

	b.StartTransaction()
	for _, cmd := range cmds {
		b.Register(cmd)
	}
	return b.EndTransaction()
}

// Checkpoint represents a point in history that can be returned to.
type Checkpoint struct {
	undoDepth int
}

// Checkpoint creates a checkpoint at the current history position.
func (b *Buffer) Checkpoint() Checkpoint {
	return Checkpoint{undoDepth: len(b.undoStack)}
}

// UndoToCheckpoint undoes all entries since the checkpoint.
// Returns the number of entries undone.
func (b *Buffer) UndoToCheckpoint(cp Checkpoint) int {
	n := 0
	for len(b.undoStack) > cp.undoDepth && b.Undo() {
		n++
	}
	return n
}

// RedoToCheckpoint redoes entries until the undo depth reaches the checkpoint.
// This only works if the redo stack still holds the entries.
func (b *Buffer) RedoToCheckpoint(cp Checkpoint) int {
	n := 0
	for len(b.undoStack) < cp.undoDepth && b.Redo() {
		n++
	}
	return n
}
