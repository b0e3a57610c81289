package favorites

import (
	"context"
	"sort"
	"sync"
)

type InMemoryStore struct {
	mu     sync.RWMutex
	owners map[string]map[int64]map[int64]struct{}
	counts map[Favorite]int64
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		owners: make(map[string]map[int64]map[int64]struct{}),
		counts: make(map[Favorite]int64),
	}
}

func (s *InMemoryStore) Add(_ context.Context, owner string, fav Favorite) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sites, ok := s.owners[owner]
	if !ok {
		sites = make(map[int64]map[int64]struct{})
		s.owners[owner] = sites
	}
	posts, ok := sites[fav.SiteID]
	if !ok {
		posts = make(map[int64]struct{})
		sites[fav.SiteID] = posts
	}
	if _, exists := posts[fav.PostID]; exists {
		return false, nil
	}
	posts[fav.PostID] = struct{}{}
	s.counts[fav]++
	return true, nil
}

func (s *InMemoryStore) Remove(_ context.Context, owner string, fav Favorite) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	posts := s.owners[owner][fav.SiteID]
	if _, exists := posts[fav.PostID]; !exists {
		return false, nil
	}
	delete(posts, fav.PostID)
	s.decrement(fav)
	return true, nil
}

func (s *InMemoryStore) List(_ context.Context, owner string) (map[int64][]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[int64][]int64, len(s.owners[owner]))
	for siteID, posts := range s.owners[owner] {
		if len(posts) == 0 {
			continue
		}
		ids := make([]int64, 0, len(posts))
		for id := range posts {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		out[siteID] = ids
	}
	return out, nil
}

func (s *InMemoryStore) Clear(_ context.Context, owner string, siteID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for postID := range s.owners[owner][siteID] {
		s.decrement(Favorite{SiteID: siteID, PostID: postID})
	}
	delete(s.owners[owner], siteID)
	return nil
}

func (s *InMemoryStore) Count(_ context.Context, fav Favorite) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.counts[fav], nil
}

// decrement expects s.mu held.
func (s *InMemoryStore) decrement(fav Favorite) {
	if s.counts[fav] <= 1 {
		delete(s.counts, fav)
		return
	}
	s.counts[fav]--
}
