package history

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// counter is host state mutated by test commands.
type counter struct {
	value int
	log   []string
}

// add returns a command that adds n to the counter and records calls.
func (c *counter) add(name string, n int) *FuncCommand {
	return Func(name,
		func() {
			c.value += n
			c.log = append(c.log, "exec "+name)
		},
		func() {
			c.value -= n
			c.log = append(c.log, "undo "+name)
		},
	)
}

// Entry Tests

func TestEntryKindString(t *testing.T) {
	assert.Equal(t, "single", KindSingle.String())
	assert.Equal(t, "group", KindGroup.String())
	assert.Equal(t, "unknown", EntryKind(9).String())
}

func TestEntryGroupOrder(t *testing.T) {
	c := &counter{}
	e := Group([]Command{c.add("a", 1), c.add("b", 2)})

	e.Revert()
	e.Apply()

	assert.Equal(t, []string{"undo b", "undo a", "exec a", "exec b"}, c.log)
	assert.Equal(t, KindGroup, e.Kind())
	assert.Equal(t, 2, e.Len())
}

func TestEntryGroupCopiesSlice(t *testing.T) {
	c := &counter{}
	cmds := []Command{c.add("a", 1)}
	e := Group(cmds)
	cmds[0] = c.add("z", 100)

	assert.Equal(t, "a", e.Description())
	e.Commands()[0] = nil
	assert.NotNil(t, e.Commands()[0])
}

func TestEntryDescription(t *testing.T) {
	c := &counter{}
	tests := []struct {
		name  string
		entry *Entry
		want  string
	}{
		{"single", Single(c.add("Type 'a'", 1)), "Type 'a'"},
		{"group of one", Group([]Command{c.add("paste", 1)}), "paste"},
		{"group", Group([]Command{c.add("a", 1), c.add("b", 1), c.add("c", 1)}), "3 operations"},
		{"unnamed", Single(Func("", nil, nil)), "command"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.entry.Description())
		})
	}
}

type bare struct{}

func (bare) Execute() {}
func (bare) Undo()    {}

func TestDescribeFallsBackToType(t *testing.T) {
	assert.Equal(t, "history.bare", Describe(bare{}))
}

// Buffer Tests

func TestRegisterExecutesImmediately(t *testing.T) {
	c := &counter{}
	b := NewBuffer()

	ok := b.Register(c.add("a", 5))

	assert.True(t, ok)
	assert.Equal(t, 5, c.value)
	assert.Equal(t, 1, b.UndoCount())
}

func TestUndoRedo(t *testing.T) {
	c := &counter{}
	b := NewBuffer()
	b.Register(c.add("a", 5))

	require.True(t, b.Undo())
	assert.Equal(t, 0, c.value)
	assert.False(t, b.CanUndo())
	assert.True(t, b.CanRedo())

	require.True(t, b.Redo())
	assert.Equal(t, 5, c.value)
	assert.True(t, b.CanUndo())
	assert.False(t, b.CanRedo())
}

func TestUndoRedoEmpty(t *testing.T) {
	b := NewBuffer()
	assert.False(t, b.Undo())
	assert.False(t, b.Redo())
}

func TestUndoIsLIFO(t *testing.T) {
	c := &counter{}
	b := NewBuffer()
	b.Register(c.add("a", 1))
	b.Register(c.add("b", 10))
	c.log = nil

	b.Undo()
	b.Undo()

	assert.Equal(t, []string{"undo b", "undo a"}, c.log)
	assert.Equal(t, 0, c.value)
}

func TestRegisterClearsRedo(t *testing.T) {
	c := &counter{}
	b := NewBuffer()
	b.Register(c.add("a", 1))
	b.Undo()
	require.True(t, b.CanRedo())

	b.Register(c.add("b", 2))

	assert.False(t, b.CanRedo())
	assert.False(t, b.Redo())
	assert.Equal(t, 2, c.value)
}

func TestTransactionUndoRedoOrder(t *testing.T) {
	c := &counter{}
	b := NewBuffer()

	b.StartTransaction()
	assert.False(t, b.Register(c.add("c1", 1)))
	assert.False(t, b.Register(c.add("c2", 2)))
	assert.Equal(t, 0, b.UndoCount())
	assert.Equal(t, 2, b.Pending())
	require.True(t, b.EndTransaction())

	assert.Equal(t, 1, b.UndoCount())
	assert.Equal(t, 3, c.value)
	c.log = nil

	b.Undo()
	assert.Equal(t, []string{"undo c2", "undo c1"}, c.log)
	assert.Equal(t, 0, c.value)

	c.log = nil
	b.Redo()
	assert.Equal(t, []string{"exec c1", "exec c2"}, c.log)
	assert.Equal(t, 3, c.value)
}

func TestTransactionDoesNotClearRedoUntilCommit(t *testing.T) {
	c := &counter{}
	b := NewBuffer()
	b.Register(c.add("a", 1))
	b.Undo()

	b.StartTransaction()
	b.Register(c.add("b", 2))
	assert.True(t, b.CanRedo())

	b.EndTransaction()
	assert.False(t, b.CanRedo())
}

func TestEmptyTransactionCommitsNothing(t *testing.T) {
	b := NewBuffer()

	b.StartTransaction()
	assert.True(t, b.InTransaction())
	assert.False(t, b.EndTransaction())

	assert.False(t, b.InTransaction())
	assert.False(t, b.Undo())
}

func TestEndTransactionWithoutStart(t *testing.T) {
	b := NewBuffer()
	assert.False(t, b.EndTransaction())
	assert.False(t, b.InTransaction())
}

func TestStartTransactionRestarts(t *testing.T) {
	c := &counter{}
	b := NewBuffer()

	b.StartTransaction()
	b.Register(c.add("lost", 1))
	b.StartTransaction()
	b.Register(c.add("kept", 2))
	require.True(t, b.EndTransaction())

	info, ok := b.PeekUndo()
	require.True(t, ok)
	assert.Equal(t, "kept", info.Description)
	assert.Equal(t, 1, info.Size)
	// The discarded command remains executed.
	assert.Equal(t, 3, c.value)
}

func TestCancelTransaction(t *testing.T) {
	c := &counter{}
	b := NewBuffer()

	b.StartTransaction()
	b.Register(c.add("a", 1))
	b.CancelTransaction()

	assert.False(t, b.InTransaction())
	assert.Equal(t, 0, b.UndoCount())
	assert.Equal(t, 1, c.value)
}

func TestIdempotentReplay(t *testing.T) {
	c := &counter{}
	cmd := c.add("a", 7)

	cmd.Execute()
	once := c.value
	cmd.Undo()
	cmd.Execute()

	assert.Equal(t, once, c.value)
}

func TestStampAndCommitHook(t *testing.T) {
	var clock uint64
	var committed []*Entry
	c := &counter{}
	b := NewBuffer(
		WithStamp(func() uint64 { clock++; return clock }),
		WithCommitHook(func(e *Entry) { committed = append(committed, e) }),
	)

	b.Register(c.add("a", 1))
	b.StartTransaction()
	b.Register(c.add("b", 1))
	b.EndTransaction()

	info := b.UndoInfo()
	require.Len(t, info, 2)
	assert.Equal(t, uint64(1), info[0].Stamp)
	assert.Equal(t, uint64(2), info[1].Stamp)
	assert.Equal(t, KindGroup, info[1].Kind)
	assert.Len(t, committed, 2)
}

func TestStampKeptAcrossUndoRedo(t *testing.T) {
	var clock uint64 = 41
	c := &counter{}
	b := NewBuffer(WithStamp(func() uint64 { clock++; return clock }))
	b.Register(c.add("a", 1))

	b.Undo()
	info, ok := b.PeekRedo()
	require.True(t, ok)
	assert.Equal(t, uint64(42), info.Stamp)

	b.Redo()
	info, ok = b.PeekUndo()
	require.True(t, ok)
	assert.Equal(t, uint64(42), info.Stamp)
}

func TestClear(t *testing.T) {
	c := &counter{}
	b := NewBuffer()
	b.Register(c.add("a", 1))
	b.Register(c.add("b", 1))
	b.Undo()
	b.StartTransaction()

	b.Clear()

	assert.Zero(t, b.UndoCount())
	assert.Zero(t, b.RedoCount())
	assert.False(t, b.InTransaction())
}

func TestPeekEmpty(t *testing.T) {
	b := NewBuffer()
	_, ok := b.PeekUndo()
	assert.False(t, ok)
	_, ok = b.PeekRedo()
	assert.False(t, ok)
	assert.Empty(t, b.UndoInfo())
	assert.Empty(t, b.RedoInfo())
}

// Grouping Tests

func TestTransactionScope(t *testing.T) {
	c := &counter{}
	b := NewBuffer()

	func() {
		scope := b.TransactionScope()
		defer scope.End()
		b.Register(c.add("a", 1))
		b.Register(c.add("b", 1))
	}()

	assert.False(t, b.InTransaction())
	assert.Equal(t, 1, b.UndoCount())
}

func TestTransactionScopeEndTwice(t *testing.T) {
	c := &counter{}
	b := NewBuffer()
	scope := b.TransactionScope()
	b.Register(c.add("a", 1))

	assert.True(t, scope.End())
	assert.False(t, scope.End())
	assert.Equal(t, 1, b.UndoCount())
}

func TestTransactionScopeCancel(t *testing.T) {
	c := &counter{}
	b := NewBuffer()
	scope := b.TransactionScope()
	b.Register(c.add("a", 1))
	scope.Cancel()

	assert.False(t, scope.End())
	assert.Zero(t, b.UndoCount())
}

func TestTransactionFunc(t *testing.T) {
	c := &counter{}
	b := NewBuffer()

	err := b.Transaction(func() error {
		b.Register(c.add("a", 1))
		b.Register(c.add("b", 1))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, b.UndoCount())

	boom := errors.New("boom")
	err = b.Transaction(func() error {
		b.Register(c.add("c", 1))
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, b.UndoCount())
	assert.False(t, b.InTransaction())
}

func TestRegisterGrouped(t *testing.T) {
	c := &counter{}
	b := NewBuffer()

	assert.False(t, b.RegisterGrouped())
	assert.True(t, b.RegisterGrouped(c.add("a", 1)))
	assert.True(t, b.RegisterGrouped(c.add("b", 1), c.add("c", 1)))

	info := b.UndoInfo()
	require.Len(t, info, 2)
	assert.Equal(t, KindSingle, info[0].Kind)
	assert.Equal(t, KindGroup, info[1].Kind)
}

func TestCheckpoints(t *testing.T) {
	c := &counter{}
	b := NewBuffer()
	b.Register(c.add("a", 1))
	cp := b.Checkpoint()
	b.Register(c.add("b", 10))
	b.Register(c.add("c", 100))

	assert.Equal(t, 2, b.UndoToCheckpoint(cp))
	assert.Equal(t, 1, c.value)

	assert.Equal(t, 0, b.RedoToCheckpoint(cp))

	later := Checkpoint{undoDepth: 3}
	assert.Equal(t, 2, b.RedoToCheckpoint(later))
	assert.Equal(t, 111, c.value)
}

func TestPanickingUndoKeepsEntry(t *testing.T) {
	b := NewBuffer()
	fail := true
	b.Register(Func("flaky", func() {}, func() {
		if fail {
			panic("undo failed")
		}
	}))

	assert.Panics(t, func() { b.Undo() })
	assert.Equal(t, 1, b.UndoCount())
	assert.Zero(t, b.RedoCount())

	fail = false
	require.True(t, b.Undo())
	assert.Zero(t, b.UndoCount())
	assert.Equal(t, 1, b.RedoCount())
}

func TestPanickingRedoKeepsEntry(t *testing.T) {
	b := NewBuffer()
	fail := false
	b.Register(Func("flaky", func() {
		if fail {
			panic("redo failed")
		}
	}, nil))
	require.True(t, b.Undo())

	fail = true
	assert.Panics(t, func() { b.Redo() })
	assert.Zero(t, b.UndoCount())
	assert.Equal(t, 1, b.RedoCount())
}
