// Package watcher reports changes to individual files using fsnotify.
//
// The parent directory of each file is watched rather than the file itself,
// so editors that save by writing a temporary file and renaming it over the
// original are still observed. Rapid changes to one file are coalesced into a
// single Event after a debounce delay.
package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Errors returned by the watcher.
var (
	ErrWatcherClosed   = errors.New("watcher is closed")
	ErrAlreadyWatching = errors.New("already watching path")
	ErrNotWatching     = errors.New("not watching path")
)

// Op describes a set of file operations.
type Op uint8

// Operations, combinable as a bit set.
const (
	OpCreate Op = 1 << iota
	OpWrite
	OpRemove
	OpRename
	OpChmod
)

// Has reports whether op contains other.
func (op Op) Has(other Op) bool {
	return op&other != 0
}

// String returns the operation names joined by '|'.
func (op Op) String() string {
	if op == 0 {
		return "none"
	}
	names := []struct {
		op   Op
		name string
	}{
		{OpCreate, "create"},
		{OpWrite, "write"},
		{OpRemove, "remove"},
		{OpRename, "rename"},
		{OpChmod, "chmod"},
	}
	s := ""
	for _, n := range names {
		if op.Has(n.op) {
			if s != "" {
				s += "|"
			}
			s += n.name
		}
	}
	return s
}

// Event represents a change to a watched file.
type Event struct {
	// Path is the absolute path of the changed file.
	Path string
	// Op holds every operation seen during the debounce window.
	Op Op
	// Time is when the event was delivered.
	Time time.Time
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets how long a file must stay quiet before its event is
// delivered.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.delay = d
		}
	}
}

// Watcher monitors a set of files.
type Watcher struct {
	mu sync.Mutex

	fsw     *fsnotify.Watcher
	files   map[string]bool
	dirRefs map[string]int

	delay   time.Duration
	bufSize int
	pending map[string]Op
	timer   *time.Timer

	events chan Event
	errors chan error

	closed   bool
	closeCh  chan struct{}
	closedWg sync.WaitGroup
}

// New creates a watcher and starts its event loop.
func New(opts ...Option) (*Watcher, error) {
	w := &Watcher{
		files:   make(map[string]bool),
		dirRefs: make(map[string]int),
		pending: make(map[string]Op),
		delay:   100 * time.Millisecond,
		bufSize: 16,
		closeCh: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w.fsw = fsw
	w.events = make(chan Event, w.bufSize)
	w.errors = make(chan error, w.bufSize)

	w.closedWg.Add(1)
	go w.processLoop()

	return w, nil
}

// Add starts watching the file at path.
func (w *Watcher) Add(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWatcherClosed
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(abs); err != nil {
		return err
	}
	if w.files[abs] {
		return ErrAlreadyWatching
	}

	dir := filepath.Dir(abs)
	if w.dirRefs[dir] == 0 {
		if err := w.fsw.Add(dir); err != nil {
			return err
		}
	}
	w.dirRefs[dir]++
	w.files[abs] = true
	return nil
}

// Remove stops watching the file at path.
func (w *Watcher) Remove(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWatcherClosed
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if !w.files[abs] {
		return ErrNotWatching
	}

	delete(w.files, abs)
	dir := filepath.Dir(abs)
	w.dirRefs[dir]--
	if w.dirRefs[dir] == 0 {
		delete(w.dirRefs, dir)
		return w.fsw.Remove(dir)
	}
	return nil
}

// IsWatching returns true if the file at path is being watched.
func (w *Watcher) IsWatching(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	return w.files[abs]
}

// Events returns the debounced event channel. It is closed by Close.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Errors returns the error channel. It is closed by Close.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Run calls fn for every event until ctx is done or the watcher is closed.
// Errors from fsnotify are passed to onErr when it is not nil.
func (w *Watcher) Run(ctx context.Context, fn func(Event), onErr func(error)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.events:
			if !ok {
				return ErrWatcherClosed
			}
			fn(ev)
		case err, ok := <-w.errors:
			if !ok {
				return ErrWatcherClosed
			}
			if onErr != nil {
				onErr(err)
			}
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.closeCh)
	w.mu.Unlock()

	// Wait for processLoop to finish
	w.closedWg.Wait()

	close(w.events)
	close(w.errors)
	return w.fsw.Close()
}

// processLoop handles incoming fsnotify events and flushes debounced ones.
func (w *Watcher) processLoop() {
	defer w.closedWg.Done()

	w.timer = time.NewTimer(time.Hour)
	w.timer.Stop()
	defer w.timer.Stop()

	for {
		select {
		case <-w.closeCh:
			return

		case fsEvent, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleFSEvent(fsEvent)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.sendError(err)

		case <-w.timer.C:
			w.flush()
		}
	}
}

// handleFSEvent records an event for a watched file and restarts the
// debounce timer.
func (w *Watcher) handleFSEvent(fsEvent fsnotify.Event) {
	op := convertOp(fsEvent.Op)
	if op == 0 {
		return
	}

	abs, err := filepath.Abs(fsEvent.Name)
	if err != nil {
		return
	}

	w.mu.Lock()
	watched := w.files[abs]
	if watched {
		w.pending[abs] |= op
	}
	w.mu.Unlock()

	if watched {
		w.timer.Reset(w.delay)
	}
}

// flush delivers all pending events.
func (w *Watcher) flush() {
	w.mu.Lock()
	pending := w.pending
	w.pending = make(map[string]Op)
	w.mu.Unlock()

	now := time.Now()
	for path, op := range pending {
		select {
		case w.events <- Event{Path: path, Op: op, Time: now}:
		default:
			w.sendError(errors.New("event channel full, dropping event for " + path))
		}
	}
}

// sendError sends an error to the output channel, dropping it if full.
func (w *Watcher) sendError(err error) {
	select {
	case w.errors <- err:
	default:
	}
}

// convertOp converts fsnotify.Op to watcher.Op.
func convertOp(fsOp fsnotify.Op) Op {
	var op Op
	if fsOp.Has(fsnotify.Create) {
		op |= OpCreate
	}
	if fsOp.Has(fsnotify.Write) {
		op |= OpWrite
	}
	if fsOp.Has(fsnotify.Remove) {
		op |= OpRemove
	}
	if fsOp.Has(fsnotify.Rename) {
		op |= OpRename
	}
	if fsOp.Has(fsnotify.Chmod) {
		op |= OpChmod
	}
	return op
}
