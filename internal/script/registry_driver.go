package script

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/undoctx/internal/config"
	"github.com/dshills/undoctx/internal/history"
	"github.com/dshills/undoctx/internal/registry"
)

// registryDriver addresses contexts of a flat registry by id.
type registryDriver struct {
	coord *registry.Coordinator
}

func (d *registryDriver) mode() string { return config.ModeRegistry }

func (d *registryDriver) install(h *Host, api *lua.LTable) {
	h.L.SetField(api, "context", h.L.NewFunction(func(L *lua.LState) int {
		id := L.OptString(1, "")
		if id == "" {
			id = h.newID()
		}
		if d.coord.CreateContext(id) {
			h.logger.Debug("context %q created", id)
		}
		L.Push(lua.LString(id))
		return 1
	}))

	h.L.SetField(api, "contexts", h.L.NewFunction(func(L *lua.LState) int {
		t := L.NewTable()
		for _, id := range d.coord.Contexts() {
			t.Append(lua.LString(id))
		}
		L.Push(t)
		return 1
	}))

	h.L.SetField(api, "count", h.L.NewFunction(func(L *lua.LState) int {
		v, ok := d.coord.Context(L.CheckString(1))
		if !ok {
			L.Push(lua.LNil)
			return 1
		}
		L.Push(lua.LNumber(v.UndoCount()))
		L.Push(lua.LNumber(v.RedoCount()))
		return 2
	}))
}

// target resolves the context id at idx, failing for unknown ids.
func (d *registryDriver) target(L *lua.LState, idx int) (string, error) {
	id := L.CheckString(idx)
	if _, ok := d.coord.Context(id); !ok {
		return id, fmt.Errorf("%w %q", history.ErrUnknownContext, id)
	}
	return id, nil
}

func (d *registryDriver) register(L *lua.LState, target int, cmd history.Command) error {
	id, err := d.target(L, target)
	if err != nil {
		return err
	}
	d.coord.Register(id, cmd)
	return nil
}

func (d *registryDriver) undo(L *lua.LState, target int) error {
	if !d.coord.Undo() {
		return history.ErrNothingToUndo
	}
	return nil
}

func (d *registryDriver) redo(L *lua.LState, target int) error {
	if !d.coord.Redo() {
		return history.ErrNothingToRedo
	}
	return nil
}

func (d *registryDriver) begin(L *lua.LState, target int) error {
	id, err := d.target(L, target)
	if err != nil {
		return err
	}
	d.coord.StartMultiEvent(id)
	return nil
}

func (d *registryDriver) commit(L *lua.LState, target int) error {
	id, err := d.target(L, target)
	if err != nil {
		return err
	}
	if !d.coord.EndMultiEvent(id) {
		return history.ErrNoTransaction
	}
	return nil
}

func (d *registryDriver) cancel(L *lua.LState, target int) error {
	id, err := d.target(L, target)
	if err != nil {
		return err
	}
	d.coord.CancelMultiEvent(id)
	return nil
}

func (d *registryDriver) canUndo() bool { return d.coord.CanUndo() }
func (d *registryDriver) canRedo() bool { return d.coord.CanRedo() }
func (d *registryDriver) depth() int    { return d.coord.UndoDepth() }

func (d *registryDriver) peek() (string, history.Info, bool) {
	return d.coord.PeekUndo()
}
