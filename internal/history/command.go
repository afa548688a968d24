package history

import "fmt"

// Command represents a reversible unit of state mutation.
type Command interface {
	// Execute applies the command's effect.
	Execute()

	// Undo reverses the effect of the preceding Execute.
	Undo()
}

// Describer is implemented by commands that can describe themselves.
type Describer interface {
	Description() string
}

// Describe returns a human-readable description of cmd.
func Describe(cmd Command) string {
	if d, ok := cmd.(Describer); ok {
		return d.Description()
	}
	return fmt.Sprintf("%T", cmd)
}

// FuncCommand adapts a pair of closures into a Command.
type FuncCommand struct {
	Name   string
	DoFn   func()
	UndoFn func()
}

// Func creates a command from execute and undo closures.
// Nil closures are treated as no-ops.
func Func(name string, do, undo func()) *FuncCommand {
	return &FuncCommand{
		Name:   name,
		DoFn:   do,
		UndoFn: undo,
	}
}

// Execute runs the execute closure.
func (c *FuncCommand) Execute() {
	if c.DoFn != nil {
		c.DoFn()
	}
}

// Undo runs the undo closure.
func (c *FuncCommand) Undo() {
	if c.UndoFn != nil {
		c.UndoFn()
	}
}

// Description returns the command's name.
func (c *FuncCommand) Description() string {
	if c.Name != "" {
		return c.Name
	}
	return "command"
}
