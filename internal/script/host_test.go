package script

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/undoctx/internal/registry"
	"github.com/dshills/undoctx/internal/tree"
)

// prelude defines a document and a command constructor shared by tests.
const prelude = `
docs = {}
function append(id, s)
  return undo.command{
    name = "append " .. s,
    execute = function() docs[id] = (docs[id] or "") .. s end,
    undo = function() docs[id] = docs[id]:sub(1, #docs[id] - #s) end,
  }
end
`

func newRegistryHost(t *testing.T, opts ...Option) (*Host, *registry.Coordinator, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	coord := registry.New()
	h := NewRegistryHost(coord, append([]Option{WithOutput(&out)}, opts...)...)
	t.Cleanup(h.Close)
	require.NoError(t, h.Run(context.Background(), "prelude", prelude))
	return h, coord, &out
}

func newTreeHost(t *testing.T) (*Host, *tree.Node, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	root := tree.New()
	h := NewTreeHost(root, nil, WithOutput(&out))
	t.Cleanup(h.Close)
	require.NoError(t, h.Run(context.Background(), "prelude", prelude))
	return h, root, &out
}

func TestRegistryScript(t *testing.T) {
	h, coord, out := newRegistryHost(t)

	err := h.Run(context.Background(), "main", `
local a = undo.context("a")
local b = undo.context("b")
undo.register(a, append("a", "one"))
undo.register(b, append("b", "two"))
print(undo.mode, undo.depth(), undo.peek())
undo.undo()
print(docs.a, docs.b == "")
undo.redo()
print(docs.b)
`)
	require.NoError(t, err)

	assert.Equal(t, "registry\t2\tb\tappend two\none\ttrue\ntwo\n", out.String())
	assert.Equal(t, 2, coord.UndoDepth())
	assert.Equal(t, []string{"a", "b"}, coord.Contexts())
}

func TestRegistryScriptMultiEvent(t *testing.T) {
	h, coord, out := newRegistryHost(t)

	err := h.Run(context.Background(), "main", `
local id = undo.context("doc")
undo.begin(id)
undo.register(id, append("doc", "x"))
undo.register(id, append("doc", "y"))
print(undo.commit(id), undo.depth())
undo.begin(id)
print(undo.commit(id))
undo.undo()
print(docs.doc == "", undo.can_undo(), undo.can_redo())
print(undo.count(id))
`)
	require.NoError(t, err)

	assert.Equal(t, "true\t1\nfalse\tno transaction committed\ntrue\tfalse\ttrue\n0\t1\n", out.String())
	assert.Equal(t, 1, coord.RedoDepth())
}

func TestRegistryUnknownContext(t *testing.T) {
	h, _, out := newRegistryHost(t)

	err := h.Run(context.Background(), "main", `
print(undo.register("ghost", append("ghost", "x")), docs.ghost)
print(undo.count("ghost"))
`)
	require.NoError(t, err)
	assert.Equal(t, "false\tnil\nnil\n", out.String())
}

func TestRegistryNoOpResults(t *testing.T) {
	h, coord, out := newRegistryHost(t)

	err := h.Run(context.Background(), "main", `
local id = undo.context("doc")
print(undo.undo())
print(undo.redo())
print(undo.register("ghost", append("ghost", "x")))
print(undo.begin("ghost"))
print(undo.cancel("ghost"))
undo.begin(id)
print(undo.commit(id))
print(undo.commit("ghost"))
print(docs.ghost)
`)
	require.NoError(t, err)

	assert.Equal(t, "false\tnothing to undo\n"+
		"false\tnothing to redo\n"+
		"false\tunknown context \"ghost\"\n"+
		"false\tunknown context \"ghost\"\n"+
		"false\tunknown context \"ghost\"\n"+
		"false\tno transaction committed\n"+
		"false\tunknown context \"ghost\"\n"+
		"nil\n", out.String())
	assert.Zero(t, coord.UndoDepth())
}

func TestLuaErrorInUndoKeepsEntry(t *testing.T) {
	h, coord, _ := newRegistryHost(t)

	require.NoError(t, h.Run(context.Background(), "setup", `
local id = undo.context("doc")
undo.register(id, undo.command{
  name = "stuck",
  execute = function() end,
  undo = function() error("cannot undo") end,
})
`))

	err := h.Run(context.Background(), "undo", `undo.undo()`)
	assert.ErrorContains(t, err, "cannot undo")

	assert.Equal(t, 1, coord.UndoDepth())
	assert.Zero(t, coord.RedoDepth())
	v, ok := coord.Context("doc")
	require.True(t, ok)
	assert.Equal(t, 1, v.UndoCount())
	assert.Zero(t, v.RedoCount())
}

func TestRegistryGeneratedIDs(t *testing.T) {
	n := 0
	h, coord, _ := newRegistryHost(t, WithIDGenerator(func() string {
		n++
		return "gen-" + string(rune('0'+n))
	}))

	require.NoError(t, h.Run(context.Background(), "main", `first = undo.context()`))

	assert.Equal(t, "gen-1", h.Global("first"))
	assert.Equal(t, []string{"gen-1"}, coord.Contexts())
}

func TestRegistryDefaultIDsAreUUIDs(t *testing.T) {
	h, _, _ := newRegistryHost(t)
	require.NoError(t, h.Run(context.Background(), "main", `id = undo.context()`))

	id, ok := h.Global("id").(string)
	require.True(t, ok)
	assert.Len(t, id, 36)
}

func TestTreeScript(t *testing.T) {
	h, root, out := newTreeHost(t)

	err := h.Run(context.Background(), "main", `
local r = undo.root()
local x = undo.node(r, "x")
local y = undo.node("root", "y")
undo.register(x, append("x", "cmdX"))
undo.register("y", append("y", "cmdY"))
print(undo.peek())
undo.undo(x)
print(docs.x, docs.y == "", y:count())
undo.register(r, append("r", "late"))
print(undo.can_redo(), undo.clock(), tostring(x), x:depth())
`)
	require.NoError(t, err)

	assert.Equal(t, "y\tappend cmdY\ncmdX\ttrue\t0\t1\nfalse\t3\tnode: x\t1\n", out.String())
	assert.Equal(t, 3, root.Size())
}

func TestTreeScriptNoOpResults(t *testing.T) {
	h, _, out := newTreeHost(t)

	err := h.Run(context.Background(), "main", `
print(undo.undo())
print(undo.redo("root"))
undo.begin("root")
print(undo.commit("root"))
`)
	require.NoError(t, err)
	assert.Equal(t, "false\tnothing to undo\nfalse\tnothing to redo\nfalse\tno transaction committed\n", out.String())
}

func TestTreeScriptGeneratedLabelSkipsTaken(t *testing.T) {
	h, root, out := newTreeHost(t)

	// The next free index is 2, which the first child already claims.
	err := h.Run(context.Background(), "main", `
local a = undo.node(undo.root(), "node-2")
local b = undo.node(undo.root())
print(b:label())
undo.register("node-2", append("a", "x"))
print(a:count())
print(b:count())
`)
	require.NoError(t, err)

	assert.Equal(t, "node-3\n1\t0\n0\t0\n", out.String())
	assert.Equal(t, 3, root.Size())
}

func TestTreeScriptTransaction(t *testing.T) {
	h, root, _ := newTreeHost(t)

	err := h.Run(context.Background(), "main", `
local n = undo.node(undo.root(), "n")
undo.begin(n)
undo.register(n, append("n", "a"))
undo.register(n, append("n", "b"))
committed = undo.commit(n)
undo.undo()
result = docs.n
`)
	require.NoError(t, err)

	assert.Equal(t, true, h.Global("committed"))
	assert.Equal(t, "", h.Global("result"))
	assert.True(t, root.CanRedo())
}

func TestTreeScriptErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"unknown label", `undo.register("nowhere", append("z", "z"))`},
		{"duplicate label", `undo.node(undo.root(), "root")`},
		{"bad target", `undo.register(42, append("z", "z"))`},
		{"not a command", `undo.register(undo.root(), {})`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _, _ := newTreeHost(t)
			err := h.Run(context.Background(), tt.name, tt.src)

			var serr *Error
			require.ErrorAs(t, err, &serr)
			assert.Equal(t, tt.name, serr.Script)
		})
	}
}

func TestCommandValidation(t *testing.T) {
	h, _, out := newRegistryHost(t)

	err := h.Run(context.Background(), "bad", `undo.command{name = "x"}`)
	assert.ErrorContains(t, err, "execute must be a function")

	err = h.Run(context.Background(), "bad", `undo.command{execute = function() end, undo = 3}`)
	assert.ErrorContains(t, err, "undo must be a function")

	require.NoError(t, h.Run(context.Background(), "ok", `
local c = undo.command{execute = function() end}
print(c:name(), tostring(c))
`))
	assert.Equal(t, "lua command\tcommand: lua command\n", out.String())
}

func TestLuaErrorInCommandAbortsScript(t *testing.T) {
	h, coord, _ := newRegistryHost(t)

	err := h.Run(context.Background(), "boom", `
local id = undo.context("doc")
undo.register(id, undo.command{execute = function() error("exploded") end})
`)

	assert.ErrorContains(t, err, "exploded")
	assert.Zero(t, coord.UndoDepth())
}

func TestSandbox(t *testing.T) {
	h, _, out := newRegistryHost(t)

	require.NoError(t, h.Run(context.Background(), "sandbox", `
print(io == nil, os == nil, dofile == nil, loadfile == nil, require == nil)
print(string.upper("ok"), math.max(1, 2), table.concat({"a", "b"}, ","))
`))
	assert.Equal(t, "true\ttrue\ttrue\ttrue\ttrue\nOK\t2\ta,b\n", out.String())
}

func TestSyntaxError(t *testing.T) {
	h, _, _ := newRegistryHost(t)
	err := h.Run(context.Background(), "syntax", `this is not lua`)

	var serr *Error
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "syntax", serr.Script)
}

func TestRunCancelled(t *testing.T) {
	h, _, _ := newRegistryHost(t)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := h.Run(ctx, "spin", `while true do end`)

	var serr *Error
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "spin", serr.Script)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// The state stays usable after an interrupted run.
	require.NoError(t, h.Run(context.Background(), "after", `x = 1`))
	assert.Equal(t, float64(1), h.Global("x"))
}

func TestRunCancelledBeforeStart(t *testing.T) {
	h, _, _ := newRegistryHost(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := h.Run(ctx, "spin", `while true do end`)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunFile(t *testing.T) {
	h, coord, _ := newRegistryHost(t)
	path := filepath.Join(t.TempDir(), "edit.lua")
	require.NoError(t, os.WriteFile(path, []byte(`
local id = undo.context("file")
undo.register(id, append("file", "x"))
`), 0o644))

	require.NoError(t, h.RunFile(context.Background(), path))
	assert.Equal(t, 1, coord.UndoDepth())

	err := h.RunFile(context.Background(), filepath.Join(t.TempDir(), "missing.lua"))
	assert.True(t, os.IsNotExist(unwrapScript(err)))
}

func unwrapScript(err error) error {
	if serr, ok := err.(*Error); ok {
		return serr.Err
	}
	return err
}

func TestClosedHost(t *testing.T) {
	h := NewRegistryHost(registry.New())
	h.Close()
	h.Close()

	assert.ErrorIs(t, h.Run(context.Background(), "x", ""), ErrClosed)
}
