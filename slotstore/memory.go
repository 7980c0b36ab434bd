package slotstore

import (
	"context"
	"sync"
)

// MemoryStore keeps slots in process memory. Contents are lost on restart.
type MemoryStore struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{slots: make(map[string][]byte)}
}

func (m *MemoryStore) Get(ctx context.Context, slot string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.slots[slot]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), data...), true, nil
}

func (m *MemoryStore) Set(ctx context.Context, slot string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.slots[slot] = append([]byte(nil), data...)
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, slot string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.slots, slot)
	return nil
}
