package client

import (
	"context"
	"sync"

	"github.com/MKhiriev/go-todo-keeper/internal/store"
)

// memoryState is an in-memory store.StateRepository.
type memoryState struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemoryState() *memoryState {
	return &memoryState{data: map[string][]byte{}}
}

func (m *memoryState) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, store.ErrStateNotFound
	}
	return v, nil
}

func (m *memoryState) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memoryState) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *memoryState) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	return ok
}

func ptr[T any](v T) *T { return &v }
