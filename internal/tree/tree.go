package tree

import (
	"fmt"

	"github.com/dshills/undoctx/internal/history"
	"github.com/dshills/undoctx/internal/logging"
	"github.com/dshills/undoctx/internal/owner"
)

// noParent marks the root in the arena.
const noParent = -1

// node is one arena slot.
type node struct {
	label    string
	buf      *history.Buffer
	parent   int
	children []int
}

// Tree is the arena shared by all nodes of one connected tree.
type Tree struct {
	nodes []node

	clock   uint64
	clockFn func() uint64

	rootLabel string
	logger    *logging.Logger
	strict    bool
	guard     *owner.Guard
}

// New creates a tree and returns its root node.
func New(opts ...Option) *Node {
	t := &Tree{
		logger:    logging.Null,
		rootLabel: "root",
	}
	for _, opt := range opts {
		opt(t)
	}
	t.logger = t.logger.WithComponent("tree")
	t.guard = owner.New("tree", t.strict, t.logger)

	return t.add(noParent, t.rootLabel)
}

// NewNode creates a node under parent. A nil parent starts a new tree
// configured by opts and returns its root. With a parent the node joins the
// parent's tree, which keeps its own settings, and opts are ignored.
func NewNode(parent *Node, label string, opts ...Option) *Node {
	if parent == nil {
		return New(append(opts, WithRootLabel(label))...)
	}
	return parent.NewChild(label)
}

// add appends a node to the arena and wires it into its parent.
func (t *Tree) add(parent int, label string) *Node {
	idx := len(t.nodes)
	if label == "" {
		label = fmt.Sprintf("node-%d", idx)
	}

	t.nodes = append(t.nodes, node{
		label:  label,
		parent: parent,
		buf: history.NewBuffer(
			history.WithStamp(t.tick),
			history.WithCommitHook(func(e *history.Entry) { t.onCommit(idx, e) }),
		),
	})
	if parent != noParent {
		t.nodes[parent].children = append(t.nodes[parent].children, idx)
	}

	t.logger.Debug("added node %q (index %d, parent %d)", label, idx, parent)
	return &Node{tree: t, index: idx}
}

// tick returns the next commit stamp.
func (t *Tree) tick() uint64 {
	if t.clockFn != nil {
		t.clock = t.clockFn()
		return t.clock
	}
	t.clock++
	return t.clock
}

// onCommit invalidates redo history across the whole tree.
func (t *Tree) onCommit(idx int, e *history.Entry) {
	t.forEach(t.root(idx), func(i int) bool {
		t.nodes[i].buf.ClearRedo()
		return true
	})
	t.logger.Debug("commit on %q at %d: %s", t.nodes[idx].label, e.Stamp, e.Description())
}

// root walks parent links from idx to the root.
func (t *Tree) root(idx int) int {
	for t.nodes[idx].parent != noParent {
		idx = t.nodes[idx].parent
	}
	return idx
}

// forEach visits the subtree at start in pre-order until fn returns false.
func (t *Tree) forEach(start int, fn func(int) bool) {
	stack := []int{start}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !fn(i) {
			return
		}

		children := t.nodes[i].children
		for c := len(children) - 1; c >= 0; c-- {
			stack = append(stack, children[c])
		}
	}
}

// undoTarget finds the node whose top undo entry has the largest stamp.
// Returns -1 if every undo stack is empty.
func (t *Tree) undoTarget(from int) int {
	return t.scan(from, peekUndo, func(a, b uint64) bool { return a > b })
}

// redoTarget finds the node holding the most recently undone entry. Entries
// are undone newest first, so that is the redo top with the smallest stamp.
func (t *Tree) redoTarget(from int) int {
	return t.scan(from, peekRedo, func(a, b uint64) bool { return a < b })
}

// scan returns the first node in pre-order whose top entry, as selected by
// peek, beats every other by better. Returns -1 if no node has one.
func (t *Tree) scan(from int, peek func(*history.Buffer) (history.Info, bool), better func(a, b uint64) bool) int {
	best := -1
	var bestStamp uint64

	t.forEach(t.root(from), func(i int) bool {
		info, ok := peek(t.nodes[i].buf)
		if ok && (best == -1 || better(info.Stamp, bestStamp)) {
			best, bestStamp = i, info.Stamp
		}
		return true
	})
	return best
}

func peekUndo(b *history.Buffer) (history.Info, bool) { return b.PeekUndo() }
func peekRedo(b *history.Buffer) (history.Info, bool) { return b.PeekRedo() }

// undo reverts the globally latest entry.
func (t *Tree) undo(from int) bool {
	i := t.undoTarget(from)
	if i == -1 {
		return false
	}
	t.logger.Debug("undo on %q", t.nodes[i].label)
	return t.nodes[i].buf.Undo()
}

// redo re-applies the most recently undone entry.
func (t *Tree) redo(from int) bool {
	i := t.redoTarget(from)
	if i == -1 {
		return false
	}
	t.logger.Debug("redo on %q", t.nodes[i].label)
	return t.nodes[i].buf.Redo()
}
