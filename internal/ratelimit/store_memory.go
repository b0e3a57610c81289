package ratelimit

import (
	"context"
	"sync"
	"time"
)

// InMemoryStore keeps one sliding window of request timestamps per key. It is
// not shared between processes.
type InMemoryStore struct {
	mu      sync.Mutex
	buckets map[string][]time.Time
	now     func() time.Time
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{buckets: make(map[string][]time.Time), now: time.Now}
}

// Allow records a request for key when it fits within limit.
func (s *InMemoryStore) Allow(_ context.Context, key string, limit Limit) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	timestamps := prune(s.buckets[key], now.Add(-limit.Window))

	if len(timestamps) >= limit.Requests {
		s.buckets[key] = timestamps
		resetAt := timestamps[0].Add(limit.Window)
		return Result{
			Allowed:    false,
			Limit:      limit.Requests,
			ResetAt:    resetAt,
			RetryAfter: retryAfterSeconds(resetAt, now),
		}, nil
	}

	timestamps = append(timestamps, now)
	s.buckets[key] = timestamps
	return Result{
		Allowed:   true,
		Limit:     limit.Requests,
		Remaining: limit.Requests - len(timestamps),
		ResetAt:   timestamps[0].Add(limit.Window),
	}, nil
}

// prune drops timestamps at or before cutoff. timestamps is ordered.
func prune(timestamps []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for ; i < len(timestamps); i++ {
		if timestamps[i].After(cutoff) {
			break
		}
	}
	return timestamps[i:]
}
