// Package store persists serialized pattern databases between runs so
// expensive compiles happen once. Entries are keyed by a fingerprint of the
// expression set and the engine version, so entries go stale automatically
// when either changes.
package store

import "time"

// Entry is one cached serialized database.
type Entry struct {
	Key           string
	EngineVersion string
	CreatedAt     time.Time
	Data          []byte
}

// Store is the persistence interface for serialized databases.
type Store interface {
	// Put inserts or replaces an entry.
	Put(e *Entry) error
	// Get returns the entry for key, or nil when absent.
	Get(key string) (*Entry, error)
	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error
	Close() error
}
