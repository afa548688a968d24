package history

import "fmt"

// EntryKind distinguishes single-command entries from transactions.
type EntryKind int

const (
	// KindSingle is an entry holding one command.
	KindSingle EntryKind = iota
	// KindGroup is an entry holding the commands of one transaction.
	KindGroup
)

// String returns the string representation of the kind.
func (k EntryKind) String() string {
	switch k {
	case KindSingle:
		return "single"
	case KindGroup:
		return "group"
	default:
		return "unknown"
	}
}

// Entry is one committed history step.
// Its grouping never changes after it has been pushed.
type Entry struct {
	kind     EntryKind
	commands []Command

	// Stamp is the logical time at which the entry was committed.
	// Zero when the owning buffer has no stamp source.
	Stamp uint64
}

// Single creates an entry for one command.
func Single(cmd Command) *Entry {
	return &Entry{kind: KindSingle, commands: []Command{cmd}}
}

// Group creates an entry for an ordered group of commands.
// The slice is copied.
func Group(cmds []Command) *Entry {
	c := make([]Command, len(cmds))
	copy(c, cmds)
	return &Entry{kind: KindGroup, commands: c}
}

// Kind returns whether the entry is a single command or a group.
func (e *Entry) Kind() EntryKind {
	return e.kind
}

// Len returns the number of commands in the entry.
func (e *Entry) Len() int {
	return len(e.commands)
}

// Commands returns a copy of the entry's commands in registration order.
func (e *Entry) Commands() []Command {
	c := make([]Command, len(e.commands))
	copy(c, e.commands)
	return c
}

// Apply re-executes the entry in registration order.
func (e *Entry) Apply() {
	for _, cmd := range e.commands {
		cmd.Execute()
	}
}

// Revert undoes the entry in reverse registration order.
func (e *Entry) Revert() {
	for i := len(e.commands) - 1; i >= 0; i-- {
		e.commands[i].Undo()
	}
}

// Description returns a human-readable description.
func (e *Entry) Description() string {
	if e.kind == KindSingle {
		return Describe(e.commands[0])
	}
	if len(e.commands) == 1 {
		return Describe(e.commands[0])
	}
	return fmt.Sprintf("%d operations", len(e.commands))
}

// Info returns read-only information about the entry.
func (e *Entry) Info() Info {
	return Info{
		Description: e.Description(),
		Kind:        e.kind,
		Size:        len(e.commands),
		Stamp:       e.Stamp,
	}
}

// Info provides read-only info about an entry.
// Used for displaying undo/redo history to users.
type Info struct {
	Description string    // Human-readable description
	Kind        EntryKind // Single command or transaction
	Size        int       // Number of commands
	Stamp       uint64    // Logical commit time, zero if unstamped
}
