package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value     float64
	expiresAt time.Time
}

// MemoryStore is an in-process Store used in tests and when running without a
// database. Expired entries are overwritten on the next Put for the same key;
// there is no background sweeper.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry)}
}

func (s *MemoryStore) Get(_ context.Context, namespace, key string) (float64, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[namespace+":"+key]
	if !ok || !entry.expiresAt.After(time.Now()) {
		return 0, false, nil
	}
	return entry.value, true, nil
}

func (s *MemoryStore) Put(_ context.Context, namespace, key string, value float64, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[namespace+":"+key] = memoryEntry{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}
