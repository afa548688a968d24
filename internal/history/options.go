package history

// Option configures a Buffer during creation.
type Option func(*Buffer)

// WithStamp sets the source of logical timestamps for committed entries.
// It is called exactly once per commit.
func WithStamp(next func() uint64) Option {
	return func(b *Buffer) {
		b.stamp = next
	}
}

// WithCommitHook registers a function called after every commit with the
// committed entry.
func WithCommitHook(fn func(*Entry)) Option {
	return func(b *Buffer) {
		b.onCommit = fn
	}
}
