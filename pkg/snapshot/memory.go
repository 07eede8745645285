package snapshot

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryStore keeps frames in memory. It is the default store and the one
// used in tests.
type MemoryStore struct {
	mu     sync.RWMutex
	frames map[string][]byte
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{frames: make(map[string][]byte)}
}

// Put stores a copy of data.
func (s *MemoryStore) Put(ctx context.Context, key string, data []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}
	s.mu.Lock()
	s.frames[key] = append([]byte(nil), data...)
	s.mu.Unlock()
	return nil
}

// Get returns a copy of the data under key.
func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	s.mu.RLock()
	data, ok := s.frames[key]
	s.mu.RUnlock()
	if !ok {
		return nil, notFound(key)
	}
	return append([]byte(nil), data...), nil
}

// List returns the keys starting with prefix in ascending order.
func (s *MemoryStore) List(ctx context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var keys []string
	for key := range s.frames {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Len returns the number of stored frames.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.frames)
}
