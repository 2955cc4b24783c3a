// internal/store/memory.go
//
// In-memory implementation of the Store interface.
// Used in tests and when STORE=memory; state is lost when the process exits.
//
// Characteristics:
//   - Values are kept in a map keyed by record name.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).

package store

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound is returned by Get for an absent key.
var ErrNotFound = errors.New("not found")

// Store is a string-keyed get/set/remove substrate with no multi-key
// transactions: each write stands or fails on its own.
type Store interface {
	// Get returns the value for key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set creates or replaces the value for key.
	Set(ctx context.Context, key, value string) error

	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu     sync.RWMutex      // guards values
	values map[string]string // keyed by record name
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{values: make(map[string]string)}
}

func (m *memory) Get(ctx context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.values[key]; ok {
		return v, nil
	}
	return "", ErrNotFound
}

func (m *memory) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *memory) Remove(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}
