package tree

import "github.com/dshills/undoctx/internal/history"

// Node is a handle to one context in a tree.
type Node struct {
	tree  *Tree
	index int
}

func (n *Node) data() *node {
	return &n.tree.nodes[n.index]
}

func (n *Node) handle(i int) *Node {
	return &Node{tree: n.tree, index: i}
}

// NewChild creates a child node. An empty label gets a generated one.
func (n *Node) NewChild(label string) *Node {
	n.tree.guard.Check("NewChild")
	return n.tree.add(n.index, label)
}

// Label returns the node's label.
func (n *Node) Label() string {
	return n.data().label
}

// Register executes cmd and records it on this node.
// Outside a transaction the entry is committed, stamped, and every redo
// stack in the tree is cleared; Register then returns true.
func (n *Node) Register(cmd history.Command) bool {
	n.tree.guard.Check("Register")
	return n.data().buf.Register(cmd)
}

// Undo undoes the most recent entry anywhere in the tree.
// Returns false if no node has anything to undo.
func (n *Node) Undo() bool {
	n.tree.guard.Check("Undo")
	return n.tree.undo(n.index)
}

// Redo redoes the most recently undone entry anywhere in the tree.
// Returns false if no node has anything to redo.
func (n *Node) Redo() bool {
	n.tree.guard.Check("Redo")
	return n.tree.redo(n.index)
}

// StartTransaction begins grouping commands registered on this node.
func (n *Node) StartTransaction() {
	n.tree.guard.Check("StartTransaction")
	n.data().buf.StartTransaction()
}

// EndTransaction commits the grouped commands as one entry stamped now.
// Returns true only if something was committed.
func (n *Node) EndTransaction() bool {
	n.tree.guard.Check("EndTransaction")
	return n.data().buf.EndTransaction()
}

// CancelTransaction drops the transaction without committing it.
// Commands already registered stay executed.
func (n *Node) CancelTransaction() {
	n.tree.guard.Check("CancelTransaction")
	n.data().buf.CancelTransaction()
}

// InTransaction returns true if a transaction is open on this node.
func (n *Node) InTransaction() bool {
	return n.data().buf.InTransaction()
}

// CanUndo returns true if any node in the tree can undo.
func (n *Node) CanUndo() bool {
	return n.tree.undoTarget(n.index) != -1
}

// CanRedo returns true if any node in the tree can redo.
func (n *Node) CanRedo() bool {
	return n.tree.redoTarget(n.index) != -1
}

// UndoCount returns the number of undo entries held by this node.
func (n *Node) UndoCount() int {
	return n.data().buf.UndoCount()
}

// RedoCount returns the number of redo entries held by this node.
func (n *Node) RedoCount() int {
	return n.data().buf.RedoCount()
}

// PeekUndo returns info about this node's top undo entry.
func (n *Node) PeekUndo() (history.Info, bool) {
	return n.data().buf.PeekUndo()
}

// PeekRedo returns info about this node's top redo entry.
func (n *Node) PeekRedo() (history.Info, bool) {
	return n.data().buf.PeekRedo()
}

// NextUndo returns the node and entry info the next Undo would act on.
func (n *Node) NextUndo() (*Node, history.Info, bool) {
	i := n.tree.undoTarget(n.index)
	if i == -1 {
		return nil, history.Info{}, false
	}
	info, _ := n.tree.nodes[i].buf.PeekUndo()
	return n.handle(i), info, true
}

// NextRedo returns the node and entry info the next Redo would act on.
func (n *Node) NextRedo() (*Node, history.Info, bool) {
	i := n.tree.redoTarget(n.index)
	if i == -1 {
		return nil, history.Info{}, false
	}
	info, _ := n.tree.nodes[i].buf.PeekRedo()
	return n.handle(i), info, true
}

// Clock returns the stamp of the most recent commit in the tree.
func (n *Node) Clock() uint64 {
	return n.tree.clock
}

// Root returns the root of the tree.
func (n *Node) Root() *Node {
	return n.handle(n.tree.root(n.index))
}

// IsRoot returns true if the node has no parent.
func (n *Node) IsRoot() bool {
	return n.data().parent == noParent
}

// Parent returns the parent node, or false for the root.
func (n *Node) Parent() (*Node, bool) {
	p := n.data().parent
	if p == noParent {
		return nil, false
	}
	return n.handle(p), true
}

// Children returns the node's children in creation order.
func (n *Node) Children() []*Node {
	children := n.data().children
	result := make([]*Node, len(children))
	for i, c := range children {
		result[i] = n.handle(c)
	}
	return result
}

// Depth returns the number of edges between the node and the root.
func (n *Node) Depth() int {
	d := 0
	for i := n.index; n.tree.nodes[i].parent != noParent; i = n.tree.nodes[i].parent {
		d++
	}
	return d
}

// Walk visits every node in the tree in pre-order from the root until fn
// returns false.
func (n *Node) Walk(fn func(*Node) bool) {
	n.tree.forEach(n.tree.root(n.index), func(i int) bool {
		return fn(n.handle(i))
	})
}

// Size returns the number of nodes in the tree.
func (n *Node) Size() int {
	return len(n.tree.nodes)
}

// Same reports whether n and other refer to the same node.
func (n *Node) Same(other *Node) bool {
	return other != nil && n.tree == other.tree && n.index == other.index
}
