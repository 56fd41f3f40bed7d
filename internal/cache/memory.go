package cache

import (
	"context"
	"sync"

	"github.com/wilsonwong1990/nhl-stats-tracker/internal/store"
)

// MemoryStore keeps entries in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]store.CachedEntry
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]store.CachedEntry)}
}

// Load returns a copy of the entry under key, or store.ErrCacheMiss.
func (m *MemoryStore) Load(_ context.Context, key string) (*store.CachedEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.entries[key]
	if !ok {
		return nil, store.ErrCacheMiss
	}
	return &entry, nil
}

// Save overwrites the entry under key.
func (m *MemoryStore) Save(_ context.Context, key string, entry store.CachedEntry) error {
	m.mu.Lock()
	m.entries[key] = entry
	m.mu.Unlock()
	return nil
}

// Len returns the number of stored entries.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
