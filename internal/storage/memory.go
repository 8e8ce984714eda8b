package storage

import (
	"context"
	"sync"
)

const memoryScheme = "mem://"

// MemoryStore keeps objects in process memory. Used for local development and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
	uploads int
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string][]byte)}
}

// Upload keeps a copy of data and returns a reference derived from its content key.
func (s *MemoryStore) Upload(_ context.Context, data []byte, filename string) (string, error) {
	ref := memoryScheme + ContentKey(data, filename)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.objects[ref] = append([]byte(nil), data...)
	s.uploads++
	return ref, nil
}

// Fetch returns a copy of the object behind ref, or ErrObjectNotFound.
func (s *MemoryStore) Fetch(_ context.Context, ref string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.objects[ref]
	if !ok {
		return nil, ErrObjectNotFound
	}
	return append([]byte(nil), data...), nil
}

// Uploads returns how many uploads the store has accepted.
func (s *MemoryStore) Uploads() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.uploads
}
