// Package session provides conversation thread storage: an in-memory
// SessionStore with optional history capping and idle eviction, and the
// per-thread KeyedMutex that serializes whole turns on the same thread so
// concurrent callers cannot silently overwrite each other's messages.
package session
