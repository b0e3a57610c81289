package settings

import (
	"context"
	"sync"
)

// InMemoryStore keeps the document in process memory.
type InMemoryStore struct {
	mu  sync.RWMutex
	doc Document
}

// NewInMemoryStore starts from doc.
func NewInMemoryStore(doc Document) *InMemoryStore {
	return &InMemoryStore{doc: doc}
}

func (s *InMemoryStore) Load(_ context.Context) (Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc, nil
}

func (s *InMemoryStore) Save(_ context.Context, doc Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = doc
	return nil
}
