package store

import "sync"

// MemoryStore keeps entries in process memory. Useful for tests and for
// callers that only want intra-process reuse.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*Entry
}

// NewMemory creates an empty in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{entries: make(map[string]*Entry)}
}

// Put inserts or replaces an entry. The entry's data is copied.
func (m *MemoryStore) Put(e *Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *e
	stored.Data = append([]byte(nil), e.Data...)
	m.entries[e.Key] = &stored
	return nil
}

// Get returns the entry for key, or nil when absent.
func (m *MemoryStore) Get(key string) (*Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[key]
	if !ok {
		return nil, nil
	}
	out := *e
	out.Data = append([]byte(nil), e.Data...)
	return &out, nil
}

// Delete removes key.
func (m *MemoryStore) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

// Close is a no-op for the memory store.
func (m *MemoryStore) Close() error {
	return nil
}
