package script

import (
	lua "github.com/yuin/gopher-lua"
)

const commandTypeName = "undo.command"

// luaCommand adapts a pair of Lua functions to history.Command.
// It must only be executed while its host is running a script.
type luaCommand struct {
	L      *lua.LState
	name   string
	doFn   *lua.LFunction
	undoFn *lua.LFunction
}

// Execute calls the Lua execute function.
func (c *luaCommand) Execute() {
	c.call(c.doFn)
}

// Undo calls the Lua undo function.
func (c *luaCommand) Undo() {
	c.call(c.undoFn)
}

// Description returns the command name.
func (c *luaCommand) Description() string {
	return c.name
}

// call invokes fn unprotected so Lua errors unwind to the running script.
func (c *luaCommand) call(fn *lua.LFunction) {
	if fn == nil {
		return
	}
	c.L.Push(fn)
	c.L.Call(0, 0)
}

// newCommand implements undo.command{name=, execute=, undo=}.
func (h *Host) newCommand(L *lua.LState) int {
	def := L.CheckTable(1)

	cmd := &luaCommand{
		L:    L,
		name: lua.LVAsString(def.RawGetString("name")),
	}
	if cmd.name == "" {
		cmd.name = "lua command"
	}

	var ok bool
	if cmd.doFn, ok = def.RawGetString("execute").(*lua.LFunction); !ok {
		L.ArgError(1, "execute must be a function")
		return 0
	}
	if v := def.RawGetString("undo"); v != lua.LNil {
		if cmd.undoFn, ok = v.(*lua.LFunction); !ok {
			L.ArgError(1, "undo must be a function")
			return 0
		}
	}

	ud := L.NewUserData()
	ud.Value = cmd
	L.SetMetatable(ud, L.GetTypeMetatable(commandTypeName))
	L.Push(ud)
	return 1
}

// checkCommand returns the command at stack index n.
func checkCommand(L *lua.LState, n int) *luaCommand {
	ud := L.CheckUserData(n)
	if cmd, ok := ud.Value.(*luaCommand); ok {
		return cmd
	}
	L.ArgError(n, "undo.command expected")
	return nil
}

func commandToString(L *lua.LState) int {
	cmd := checkCommand(L, 1)
	L.Push(lua.LString("command: " + cmd.name))
	return 1
}

func commandName(L *lua.LState) int {
	L.Push(lua.LString(checkCommand(L, 1).name))
	return 1
}
