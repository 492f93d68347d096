package session

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentrelay/core"
)

func TestGetOrCreateAssignsThreadID(t *testing.T) {
	store := NewInMemoryStore()

	id, history, err := store.GetOrCreate("")
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Empty(t, history)
	assert.Equal(t, 1, store.Len())

	// Same id returns the same thread.
	id2, _, err := store.GetOrCreate(id)
	require.NoError(t, err)
	assert.Equal(t, id, id2)
	assert.Equal(t, 1, store.Len())
}

func TestReplaceAndSnapshotIsolation(t *testing.T) {
	store := NewInMemoryStore()
	id, _, err := store.GetOrCreate("thread-1")
	require.NoError(t, err)

	history := []core.Message{
		core.UserMessage("hello"),
		core.AssistantMessage("hi"),
	}
	require.NoError(t, store.Replace(id, history))

	// Mutating the written slice must not reach the store.
	history[0].Content = "mutated"

	_, snapshot, err := store.GetOrCreate(id)
	require.NoError(t, err)
	require.Len(t, snapshot, 2)
	assert.Equal(t, "hello", snapshot[0].Content)

	// Mutating the snapshot must not reach the store either.
	snapshot[1].Content = "mutated"
	_, snapshot2, err := store.GetOrCreate(id)
	require.NoError(t, err)
	assert.Equal(t, "hi", snapshot2[1].Content)
}

func TestReplaceCapsHistory(t *testing.T) {
	store := NewInMemoryStore(func(o *InMemoryStoreOptions) {
		o.MaxHistory = 4
	})

	history := []core.Message{
		core.UserMessage("q1"),
		core.AssistantMessage("a1"),
		core.UserMessage("q2"),
		core.AssistantMessage("a2"),
		core.UserMessage("q3"),
		core.AssistantMessage("a3"),
	}
	require.NoError(t, store.Replace("t", history))

	_, snapshot, err := store.GetOrCreate("t")
	require.NoError(t, err)
	require.Len(t, snapshot, 4)
	assert.Equal(t, "q2", snapshot[0].Content)
}

func TestTrimNeverLeavesLeadingToolMessage(t *testing.T) {
	store := NewInMemoryStore(func(o *InMemoryStoreOptions) {
		o.MaxHistory = 3
	})

	assistant := core.AssistantMessage("")
	assistant.ToolCalls = []core.ToolCall{{ID: "c1", Name: "get_weather"}}

	history := []core.Message{
		core.UserMessage("q1"),
		assistant,
		core.ToolMessage("c1", "sunny"),
		core.AssistantMessage("It's sunny."),
	}
	require.NoError(t, store.Replace("t", history))

	_, snapshot, err := store.GetOrCreate("t")
	require.NoError(t, err)

	// A naive cut at 3 would start with the orphaned tool message; the trim
	// skips past it instead.
	require.NotEmpty(t, snapshot)
	assert.NotEqual(t, core.RoleTool, snapshot[0].Role)
}

func TestIdleEviction(t *testing.T) {
	now := time.Now()
	store := NewInMemoryStore(func(o *InMemoryStoreOptions) {
		o.IdleTTL = time.Minute
	})
	store.now = func() time.Time { return now }

	_, _, err := store.GetOrCreate("stale")
	require.NoError(t, err)
	assert.Equal(t, 1, store.Len())

	// Jump past the TTL; the next access scans and evicts.
	now = now.Add(2 * time.Minute)
	_, _, err = store.GetOrCreate("fresh")
	require.NoError(t, err)

	_, history, err := store.GetOrCreate("stale")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestKeyedMutexSerializesSameKey(t *testing.T) {
	km := NewKeyedMutex()

	var (
		mu      sync.Mutex
		current int
		maxSeen int
		wg      sync.WaitGroup
	)

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			km.Lock("thread-1")
			defer km.Unlock("thread-1")

			mu.Lock()
			current++
			if current > maxSeen {
				maxSeen = current
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			current--
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen)
}

func TestKeyedMutexIndependentKeys(t *testing.T) {
	km := NewKeyedMutex()
	km.Lock("a")

	done := make(chan struct{})
	go func() {
		km.Lock("b")
		km.Unlock("b")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on independent key blocked")
	}
	km.Unlock("a")
}

func TestKeyedMutexUnlockUnheldPanics(t *testing.T) {
	km := NewKeyedMutex()
	assert.Panics(t, func() { km.Unlock("never-locked") })
}
