package history

import "errors"

// Common errors for history operations. The Buffer API reports outcomes as
// booleans; hosts that prefer error values translate with these.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")

	// ErrNoTransaction indicates a transaction was ended without committing anything.
	ErrNoTransaction = errors.New("no transaction committed")

	// ErrUnknownContext indicates an operation addressed an id with no buffer.
	ErrUnknownContext = errors.New("unknown context")
)
