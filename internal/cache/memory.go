package cache

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory Store used in tests and one-shot runs that do
// not want on-disk state.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]Entry)}
}

func (m *MemoryStore) Load(_ context.Context) (Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap := make(Snapshot, len(m.entries))
	for dir, e := range m.entries {
		snap[dir] = e
	}
	return snap, nil
}

func (m *MemoryStore) Commit(_ context.Context, upserts []Entry, removed []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range upserts {
		m.entries[e.Dir] = e
	}
	for _, dir := range removed {
		delete(m.entries, dir)
	}
	return nil
}

func (m *MemoryStore) Close() error { return nil }
