// Package memory provides an in-memory implementation of the
// [github.com/nota-app/nota/pkg/kv.KV] contract.
//
// Nothing survives process exit; the backend exists for tests and for
// running the application without touching disk.
package memory

import (
	"context"
	"sync"

	"github.com/nota-app/nota/pkg/kv"
)

// MemoryStore is a map guarded by a read-write mutex.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() kv.KV {
	return &MemoryStore{data: make(map[string]string)}
}

func (s *MemoryStore) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.data[key]
	return value, ok, nil
}

func (s *MemoryStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *MemoryStore) Remove(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// Migrate is a no-op; there is no schema to prepare.
func (s *MemoryStore) Migrate(ctx context.Context) error { return nil }

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }
