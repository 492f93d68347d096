package core

// SessionStore persists per-thread conversation histories. Implementations
// must serialize access to the thread mapping itself; callers are expected to
// serialize whole turns per thread via a thread lock so that the read
// (GetOrCreate) and the write-back (Replace) of one turn are not interleaved
// with another turn on the same thread.
type SessionStore interface {
	// GetOrCreate returns the thread id (assigning a fresh one when the
	// caller supplies none) and a snapshot of the thread's history. The
	// snapshot is a deep copy; mutating it does not affect the store.
	GetOrCreate(threadID string) (string, []Message, error)

	// Replace overwrites the thread's history with the given messages.
	Replace(threadID string, history []Message) error
}
