package session

import (
	"sync"
	"time"

	"github.com/hupe1980/agentrelay/core"
)

// InMemoryStore is a volatile SessionStore keeping thread histories in a
// process-local map. It is safe for concurrent access and best suited for
// tests or ephemeral demo servers. Snapshots are deep copies, so callers can
// never mutate stored state through a returned history.
//
// Histories accumulate for the process lifetime unless bounded: WithMaxHistory
// caps the number of retained messages per thread, WithIdleTTL drops threads
// that have not been touched for the given duration. Both are off by default.
type InMemoryStore struct {
	mu       sync.RWMutex
	threads  map[string]*threadEntry
	maxHist  int
	idleTTL  time.Duration
	now      func() time.Time
	lastScan time.Time
}

type threadEntry struct {
	history []core.Message
	touched time.Time
}

// InMemoryStoreOptions configure an InMemoryStore.
type InMemoryStoreOptions struct {
	// MaxHistory caps retained messages per thread; 0 disables the cap.
	MaxHistory int
	// IdleTTL evicts threads untouched for this long; 0 disables eviction.
	IdleTTL time.Duration
}

// NewInMemoryStore constructs an empty in-memory session store.
func NewInMemoryStore(optFns ...func(o *InMemoryStoreOptions)) *InMemoryStore {
	opts := InMemoryStoreOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &InMemoryStore{
		threads: make(map[string]*threadEntry),
		maxHist: opts.MaxHistory,
		idleTTL: opts.IdleTTL,
		now:     time.Now,
	}
}

// GetOrCreate returns the thread id (assigning a fresh one when empty) and a
// deep-copied snapshot of the thread's history, creating the thread lazily.
func (s *InMemoryStore) GetOrCreate(threadID string) (string, []core.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evictExpiredLocked()

	if threadID == "" {
		threadID = core.NewID()
	}
	entry, ok := s.threads[threadID]
	if !ok {
		entry = &threadEntry{}
		s.threads[threadID] = entry
	}
	entry.touched = s.now()
	return threadID, core.CloneHistory(entry.history), nil
}

// Replace overwrites the thread's history with a deep copy of the given
// messages, applying the history cap when configured.
func (s *InMemoryStore) Replace(threadID string, history []core.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.threads[threadID]
	if !ok {
		entry = &threadEntry{}
		s.threads[threadID] = entry
	}
	entry.history = trimHistory(core.CloneHistory(history), s.maxHist)
	entry.touched = s.now()
	return nil
}

// Len returns the number of live threads.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.threads)
}

// evictExpiredLocked removes idle threads. Scans are throttled to at most one
// per TTL interval to keep GetOrCreate cheap. Caller must hold the write lock.
func (s *InMemoryStore) evictExpiredLocked() {
	if s.idleTTL <= 0 {
		return
	}
	now := s.now()
	if now.Sub(s.lastScan) < s.idleTTL {
		return
	}
	s.lastScan = now
	for id, entry := range s.threads {
		if now.Sub(entry.touched) >= s.idleTTL {
			delete(s.threads, id)
		}
	}
}

// trimHistory drops the oldest messages beyond the cap. The cut never leaves
// an orphaned tool message at the head: trimming skips forward until the
// history starts with a non-tool message, preserving the tool_call_id pairing
// invariant.
func trimHistory(history []core.Message, maxHist int) []core.Message {
	if maxHist <= 0 || len(history) <= maxHist {
		return history
	}
	start := len(history) - maxHist
	for start < len(history) && history[start].Role == core.RoleTool {
		start++
	}
	return history[start:]
}
