package site

import (
	"context"
	"strconv"
	"sync"
)

// InMemoryStore holds sites in a map. It backs tests and single-process
// deployments without a database.
type InMemoryStore struct {
	mu    sync.RWMutex
	sites map[int64]Site
}

func NewInMemoryStore(sites ...Site) *InMemoryStore {
	s := &InMemoryStore{sites: make(map[int64]Site, len(sites))}
	for _, site := range sites {
		s.sites[site.ID] = site
	}
	return s
}

func (s *InMemoryStore) Add(_ context.Context, site Site) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sites[site.ID] = site
	return nil
}

// CountSitesMatching counts sites whose id equals id. Ids that are not
// integers match nothing.
func (s *InMemoryStore) CountSitesMatching(_ context.Context, id string) (int, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.sites[n]; ok {
		return 1, nil
	}
	return 0, nil
}
