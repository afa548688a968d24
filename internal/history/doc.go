// Package history provides the undo/redo buffer shared by every coordinator.
//
// The history system uses the Command pattern to encapsulate reversible state
// changes. Key concepts:
//
// # Commands
//
// A Command has Execute and Undo methods. Undo must exactly reverse the
// preceding Execute, and Execute, Undo, Execute must leave the host in the
// same state as a single Execute. Closures can be adapted with Func:
//
//	cmd := history.Func("Set title", func() { doc.Title = "new" }, func() { doc.Title = "old" })
//
// # Entries
//
// Every committed step is an Entry: either a single command or a group of
// commands recorded inside a transaction. Groups revert in reverse
// registration order and re-apply in registration order.
//
// # Buffer
//
// A Buffer owns one undo stack and one redo stack:
//
//	buf := history.NewBuffer()
//	buf.Register(cmd) // executes cmd, pushes it, clears redo
//	buf.Undo()
//	buf.Redo()
//
// # Transactions
//
// Several commands can be recorded as one undo step:
//
//	buf.StartTransaction()
//	buf.Register(a)
//	buf.Register(b)
//	buf.EndTransaction() // one entry, undone as b.Undo(), a.Undo()
//
// Operations report whether they had an effect with a boolean; undoing an
// empty stack or ending an empty transaction is not an error.
package history
