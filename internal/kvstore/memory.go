package kvstore

import (
	"context"
	"sync"
)

// MemoryStore implements Store with in-memory storage. Used in tests and as
// a fallback when no durable medium is configured.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string][]byte)}
}

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	payload, ok := m.entries[key]
	if !ok {
		return nil, ErrNotFound
	}
	return payload, nil
}

func (m *MemoryStore) Set(_ context.Context, key string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = payload
	return nil
}
