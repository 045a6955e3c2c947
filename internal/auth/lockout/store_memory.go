package lockout

import (
	"context"
	"sync"
	"time"
)

// InMemoryStore keeps lockout records in process memory. Expiry is checked
// lazily on read; a single-process deployment needs nothing more.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[string]memoryRecord
}

type memoryRecord struct {
	record    Record
	expiresAt time.Time
}

// NewInMemoryStore creates an empty store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{records: make(map[string]memoryRecord)}
}

func (s *InMemoryStore) Get(_ context.Context, key string) (Record, bool, error) {
	s.mu.RLock()
	entry, ok := s.records[key]
	s.mu.RUnlock()
	if !ok || time.Now().After(entry.expiresAt) {
		return Record{}, false, nil
	}
	return entry.record, true, nil
}

func (s *InMemoryStore) Put(_ context.Context, key string, record Record, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[key] = memoryRecord{record: record, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, key)
	return nil
}
