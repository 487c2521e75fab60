package session

import (
	"context"
	"maps"
	"sync"
)

// Store persists the credential pair under fixed keys.
type Store interface {
	// Get returns the value stored under key, or "" when there is none.
	Get(ctx context.Context, key string) (string, error)
	// Set writes all values at once; readers never observe a partial write.
	Set(ctx context.Context, values map[string]string) error
	// Clear removes keys. Missing keys are ignored.
	Clear(ctx context.Context, keys ...string) error
}

// MemoryStore keeps values in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values[key], nil
}

func (s *MemoryStore) Set(_ context.Context, values map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	maps.Copy(s.values, values)
	return nil
}

func (s *MemoryStore) Clear(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.values, k)
	}
	return nil
}

// Snapshot returns a copy of everything stored, for inspection in tests.
func (s *MemoryStore) Snapshot() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.values)
}
