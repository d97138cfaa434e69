package storage

import (
	"context"
	"sync"
)

// MemoryStore implements Store using in-memory maps
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]map[string]string // session -> key -> value
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items: make(map[string]map[string]string),
	}
}

func (m *MemoryStore) GetItem(_ context.Context, session, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.items[session][key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *MemoryStore) SetItem(_ context.Context, session, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.items[session] == nil {
		m.items[session] = make(map[string]string)
	}
	m.items[session][key] = value
	return nil
}

func (m *MemoryStore) RemoveItem(_ context.Context, session, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.items[session], key)
	if len(m.items[session]) == 0 {
		delete(m.items, session)
	}
	return nil
}

func (m *MemoryStore) Clear(_ context.Context, session string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.items, session)
	return nil
}

func (m *MemoryStore) Ping(context.Context) error { return nil }

func (m *MemoryStore) Close() error { return nil }

// Sessions returns how many sessions currently hold items
func (m *MemoryStore) Sessions() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}
