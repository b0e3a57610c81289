package consent

import (
	"context"
	"sync"

	"favorites/pkg/platform/sentinel"
)

type InMemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{records: make(map[string]Record)}
}

func (s *InMemoryStore) Save(_ context.Context, record Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.Owner] = record
	return nil
}

func (s *InMemoryStore) Find(_ context.Context, owner string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[owner]
	if !ok {
		return Record{}, sentinel.ErrNotFound
	}
	return record, nil
}
