// Package tree implements the hierarchical history coordinator.
//
// Every Node owns its own history buffer. Nodes form a parent/child tree and
// any node can undo or redo the most recent entry anywhere in that tree:
//
//	root := tree.New()
//	left := root.NewChild("left")
//	right := root.NewChild("right")
//
//	left.Register(cmdX)
//	right.Register(cmdY)
//	left.Undo() // undoes cmdY, the latest entry in the whole tree
//
// # Ordering
//
// Each committed entry is stamped from a logical clock shared by the whole
// tree and incremented once per commit. Undo picks the node whose top undo
// entry carries the largest stamp. Redo picks the most recently undone entry,
// which is the redo top with the smallest stamp, so a run of undos followed by
// a run of redos replays history in its original order. Redo deliberately does
// not mirror Undo by also taking the largest stamp. Nodes are scanned in
// pre-order from the root and the first node visited wins a tie. Ties only
// occur with a custom clock (see WithClock).
//
// # Redo invalidation
//
// Committing an entry on any node clears the redo stack of every node in the
// tree, not only the committing node and its ancestors.
//
// # Storage
//
// Nodes live in a flat arena owned by the tree. Parent and child links are
// arena indices and a Node value is a handle into that arena.
package tree
