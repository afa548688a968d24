// Package registry implements the flat history coordinator.
//
// A Coordinator maps string identifiers to independent history buffers and
// keeps one global chronological order across them. The order is an explicit
// sequence of identifiers, one pushed per committed entry, so the next global
// undo always targets the buffer whose top entry was committed last:
//
//	c := registry.New()
//	c.CreateContext("doc-a")
//	c.CreateContext("doc-b")
//	c.Register("doc-a", cmd1)
//	c.Register("doc-b", cmd2)
//	c.Undo() // undoes cmd2
//
// Buffers are only reachable through read-only Views. Every mutation goes
// through the Coordinator, which keeps the global sequence length equal to
// the total number of undoable entries across all buffers.
package registry
