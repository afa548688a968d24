package script

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/undoctx/internal/logging"
	"github.com/dshills/undoctx/internal/registry"
	"github.com/dshills/undoctx/internal/tree"
)

// Host owns a sandboxed Lua state bound to one coordinator.
//
// gopher-lua's LState is not goroutine-safe, and neither are the
// coordinators, so a Host must be used from the goroutine that created it.
type Host struct {
	L      *lua.LState
	driver driver

	logger *logging.Logger
	out    io.Writer
	newID  func() string
	closed bool
}

// NewRegistryHost creates a host whose scripts drive a flat registry.
func NewRegistryHost(c *registry.Coordinator, opts ...Option) *Host {
	return newHost(&registryDriver{coord: c}, opts...)
}

// NewTreeHost creates a host whose scripts drive the tree containing root.
// nodes maps labels to nodes already built; nodes created by scripts are
// added to it.
func NewTreeHost(root *tree.Node, nodes map[string]*tree.Node, opts ...Option) *Host {
	if nodes == nil {
		nodes = make(map[string]*tree.Node)
	}
	root = root.Root()
	nodes[root.Label()] = root
	return newHost(&treeDriver{root: root, nodes: nodes}, opts...)
}

func newHost(d driver, opts ...Option) *Host {
	h := &Host{
		driver: d,
		logger: logging.Null,
		out:    os.Stdout,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(h)
	}
	h.logger = h.logger.WithComponent("script").WithField("mode", d.mode())

	h.L = lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(h.L)
	h.install()
	return h
}

// openSafeLibraries opens only safe Lua standard libraries.
func openSafeLibraries(L *lua.LState) {
	for _, lib := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		L.Push(L.NewFunction(lib.fn))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}

	// Remove functions that load code from disk or strings.
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require"} {
		L.SetGlobal(name, lua.LNil)
	}
}

// install registers the undo table, userdata types and print.
func (h *Host) install() {
	L := h.L

	cmdMT := L.NewTypeMetatable(commandTypeName)
	L.SetField(cmdMT, "__tostring", L.NewFunction(commandToString))
	L.SetField(cmdMT, "__index", L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"name": commandName,
	}))

	api := L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"command":  h.newCommand,
		"register": h.register,
		"undo":     h.undo,
		"redo":     h.redo,
		"begin":    h.begin,
		"commit":   h.commit,
		"cancel":   h.cancel,
		"can_undo": h.canUndo,
		"can_redo": h.canRedo,
		"depth":    h.depth,
		"peek":     h.peek,
	})
	L.SetField(api, "mode", lua.LString(h.driver.mode()))
	h.driver.install(h, api)
	L.SetGlobal("undo", api)

	L.SetGlobal("print", L.NewFunction(h.print))
}

// print writes its arguments tab-separated to the host output.
func (h *Host) print(L *lua.LState) int {
	n := L.GetTop()
	parts := make([]string, n)
	for i := 1; i <= n; i++ {
		parts[i-1] = L.ToStringMeta(L.Get(i)).String()
	}
	fmt.Fprintln(h.out, strings.Join(parts, "\t"))
	return 0
}

// Run executes src as a chunk named name.
// Cancelling ctx interrupts the script.
func (h *Host) Run(ctx context.Context, name, src string) error {
	if h.closed {
		return ErrClosed
	}

	h.L.SetContext(ctx)
	defer h.L.RemoveContext()

	fn, err := h.L.Load(strings.NewReader(src), name)
	if err != nil {
		return &Error{Script: name, Err: err}
	}

	h.logger.Debug("running %s", name)
	h.L.Push(fn)
	if err := h.L.PCall(0, lua.MultRet, nil); err != nil {
		h.L.SetTop(0)
		if ctx.Err() != nil {
			h.logger.Info("script %s interrupted: %v", name, ctx.Err())
			return &Error{Script: name, Err: ctx.Err()}
		}
		h.logger.Error("script %s failed: %v", name, err)
		return &Error{Script: name, Err: err}
	}
	h.L.SetTop(0)
	return nil
}

// RunFile reads and executes the script at path.
func (h *Host) RunFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &Error{Script: path, Err: err}
	}
	return h.Run(ctx, path, string(data))
}

// Global returns the Go value of a Lua global: strings, numbers, booleans,
// or nil for anything else.
func (h *Host) Global(name string) any {
	switch v := h.L.GetGlobal(name).(type) {
	case lua.LString:
		return string(v)
	case lua.LNumber:
		return float64(v)
	case lua.LBool:
		return bool(v)
	default:
		return nil
	}
}

// Close releases the Lua state.
func (h *Host) Close() {
	if !h.closed {
		h.L.Close()
		h.closed = true
	}
}
