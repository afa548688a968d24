package script

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/undoctx/internal/history"
)

// driver binds the undo API to one coordinator kind.
// Argument indexes refer to the Lua stack of the current call. Methods report
// no-op outcomes with the history sentinel errors.
type driver interface {
	mode() string
	install(h *Host, api *lua.LTable)

	register(L *lua.LState, target int, cmd history.Command) error
	undo(L *lua.LState, target int) error
	redo(L *lua.LState, target int) error
	begin(L *lua.LState, target int) error
	commit(L *lua.LState, target int) error
	cancel(L *lua.LState, target int) error

	canUndo() bool
	canRedo() bool
	depth() int
	peek() (string, history.Info, bool)
}

func pushBool(L *lua.LState, b bool) int {
	L.Push(lua.LBool(b))
	return 1
}

// pushResult pushes true, or false and the error message.
func pushResult(L *lua.LState, err error) int {
	if err == nil {
		return pushBool(L, true)
	}
	L.Push(lua.LFalse)
	L.Push(lua.LString(err.Error()))
	return 2
}

// register implements undo.register(target, cmd).
func (h *Host) register(L *lua.LState) int {
	cmd := checkCommand(L, 2)
	err := h.driver.register(L, 1, cmd)
	h.logger.Debug("register %q: %v", cmd.name, err)
	return pushResult(L, err)
}

// undo implements undo.undo([target]).
func (h *Host) undo(L *lua.LState) int {
	return pushResult(L, h.driver.undo(L, 1))
}

// redo implements undo.redo([target]).
func (h *Host) redo(L *lua.LState) int {
	return pushResult(L, h.driver.redo(L, 1))
}

// begin implements undo.begin(target).
func (h *Host) begin(L *lua.LState) int {
	return pushResult(L, h.driver.begin(L, 1))
}

// commit implements undo.commit(target).
func (h *Host) commit(L *lua.LState) int {
	return pushResult(L, h.driver.commit(L, 1))
}

// cancel implements undo.cancel(target).
func (h *Host) cancel(L *lua.LState) int {
	return pushResult(L, h.driver.cancel(L, 1))
}

func (h *Host) canUndo(L *lua.LState) int {
	return pushBool(L, h.driver.canUndo())
}

func (h *Host) canRedo(L *lua.LState) int {
	return pushBool(L, h.driver.canRedo())
}

// depth implements undo.depth(), the number of globally undoable entries.
func (h *Host) depth(L *lua.LState) int {
	L.Push(lua.LNumber(h.driver.depth()))
	return 1
}

// peek implements undo.peek(): owner and description of the next undo, or nil.
func (h *Host) peek(L *lua.LState) int {
	owner, info, ok := h.driver.peek()
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LString(owner))
	L.Push(lua.LString(info.Description))
	return 2
}
