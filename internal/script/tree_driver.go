package script

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/undoctx/internal/config"
	"github.com/dshills/undoctx/internal/history"
	"github.com/dshills/undoctx/internal/tree"
)

const nodeTypeName = "undo.node"

// treeDriver addresses tree nodes by value or label.
type treeDriver struct {
	root  *tree.Node
	nodes map[string]*tree.Node
}

func (d *treeDriver) mode() string { return config.ModeTree }

func (d *treeDriver) install(h *Host, api *lua.LTable) {
	L := h.L

	mt := L.NewTypeMetatable(nodeTypeName)
	L.SetField(mt, "__tostring", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LString("node: " + d.checkNode(L, 1).Label()))
		return 1
	}))
	L.SetField(mt, "__index", L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"label": func(L *lua.LState) int {
			L.Push(lua.LString(d.checkNode(L, 1).Label()))
			return 1
		},
		"count": func(L *lua.LState) int {
			n := d.checkNode(L, 1)
			L.Push(lua.LNumber(n.UndoCount()))
			L.Push(lua.LNumber(n.RedoCount()))
			return 2
		},
		"depth": func(L *lua.LState) int {
			L.Push(lua.LNumber(d.checkNode(L, 1).Depth()))
			return 1
		},
	}))

	L.SetField(api, "root", L.NewFunction(func(L *lua.LState) int {
		L.Push(d.push(L, d.root))
		return 1
	}))

	// undo.node(parent, label) creates a child of parent.
	L.SetField(api, "node", L.NewFunction(func(L *lua.LState) int {
		parent := d.checkNode(L, 1)
		label := L.OptString(2, "")
		if label == "" {
			label = d.freeLabel()
		} else if _, exists := d.nodes[label]; exists {
			L.ArgError(2, "duplicate node label "+label)
			return 0
		}

		child := parent.NewChild(label)
		d.nodes[child.Label()] = child
		h.logger.Debug("node %q added under %q", child.Label(), parent.Label())
		L.Push(d.push(L, child))
		return 1
	}))

	L.SetField(api, "clock", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LNumber(d.root.Clock()))
		return 1
	}))
}

// freeLabel returns the first unused label of the form node-N, starting at
// the index the next node will occupy.
func (d *treeDriver) freeLabel() string {
	for i := d.root.Size(); ; i++ {
		label := fmt.Sprintf("node-%d", i)
		if _, exists := d.nodes[label]; !exists {
			return label
		}
	}
}

// push wraps n as node userdata.
func (d *treeDriver) push(L *lua.LState, n *tree.Node) lua.LValue {
	ud := L.NewUserData()
	ud.Value = n
	L.SetMetatable(ud, L.GetTypeMetatable(nodeTypeName))
	return ud
}

// checkNode resolves the argument at idx as node userdata or a label.
func (d *treeDriver) checkNode(L *lua.LState, idx int) *tree.Node {
	switch v := L.Get(idx).(type) {
	case *lua.LUserData:
		if n, ok := v.Value.(*tree.Node); ok {
			return n
		}
	case lua.LString:
		if n, ok := d.nodes[string(v)]; ok {
			return n
		}
		L.ArgError(idx, "unknown node "+string(v))
		return nil
	}
	L.ArgError(idx, "node or label expected")
	return nil
}

// optNode is checkNode defaulting to the root when the argument is absent.
func (d *treeDriver) optNode(L *lua.LState, idx int) *tree.Node {
	if L.Get(idx) == lua.LNil {
		return d.root
	}
	return d.checkNode(L, idx)
}

func (d *treeDriver) register(L *lua.LState, target int, cmd history.Command) error {
	d.checkNode(L, target).Register(cmd)
	return nil
}

func (d *treeDriver) undo(L *lua.LState, target int) error {
	if !d.optNode(L, target).Undo() {
		return history.ErrNothingToUndo
	}
	return nil
}

func (d *treeDriver) redo(L *lua.LState, target int) error {
	if !d.optNode(L, target).Redo() {
		return history.ErrNothingToRedo
	}
	return nil
}

func (d *treeDriver) begin(L *lua.LState, target int) error {
	d.checkNode(L, target).StartTransaction()
	return nil
}

func (d *treeDriver) commit(L *lua.LState, target int) error {
	if !d.checkNode(L, target).EndTransaction() {
		return history.ErrNoTransaction
	}
	return nil
}

func (d *treeDriver) cancel(L *lua.LState, target int) error {
	d.checkNode(L, target).CancelTransaction()
	return nil
}

func (d *treeDriver) canUndo() bool { return d.root.CanUndo() }
func (d *treeDriver) canRedo() bool { return d.root.CanRedo() }

func (d *treeDriver) depth() int {
	total := 0
	d.root.Walk(func(n *tree.Node) bool {
		total += n.UndoCount()
		return true
	})
	return total
}

func (d *treeDriver) peek() (string, history.Info, bool) {
	n, info, ok := d.root.NextUndo()
	if !ok {
		return "", history.Info{}, false
	}
	return n.Label(), info, true
}
