package storage

import (
	"context"
	"slices"
	"sync"

	"github.com/riordanpawley/codeflow/internal/domain"
)

// MemoryStore keeps values in process memory. Values are copied on the way
// in and out.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

// NewMemoryStore creates an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (m *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, &domain.StoreError{Op: "get", Key: key, Backend: "memory", Err: err}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.data[key]
	if !ok {
		return nil, &domain.StoreError{Op: "get", Key: key, Backend: "memory", Err: domain.ErrNotFound}
	}
	return slices.Clone(v), nil
}

func (m *MemoryStore) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return &domain.StoreError{Op: "set", Key: key, Backend: "memory", Err: err}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.data[key] = slices.Clone(value)
	return nil
}

func (m *MemoryStore) Remove(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return &domain.StoreError{Op: "remove", Key: key, Backend: "memory", Err: err}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data, key)
	return nil
}

// Close is a no-op
func (m *MemoryStore) Close() error {
	return nil
}

// Len reports how many keys are stored
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}
