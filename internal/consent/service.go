package consent

import (
	"context"
	"errors"
	"time"

	dErrors "favorites/pkg/domain-errors"
	"favorites/pkg/platform/sentinel"
)

// Service stores consent answers and answers consent lookups for the caller
// resolver.
type Service struct {
	store Store
	ttl   time.Duration
	now   func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a Service. Answers expire after ttl; zero keeps them
// forever.
func NewService(store Store, ttl time.Duration, opts ...Option) *Service {
	s := &Service{store: store, ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Record saves owner's answer, replacing any earlier one.
func (s *Service) Record(ctx context.Context, owner string, accepted bool) (Record, error) {
	if owner == "" {
		return Record{}, dErrors.New(dErrors.CodeInvalidInput, "consent owner is required")
	}
	now := s.now()
	record := Record{Owner: owner, Accepted: accepted, AnsweredAt: now}
	if s.ttl > 0 {
		record.ExpiresAt = now.Add(s.ttl)
	}
	if err := s.store.Save(ctx, record); err != nil {
		return Record{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save consent")
	}
	return record, nil
}

// HasConsented reports whether owner's latest unexpired answer was an accept.
func (s *Service) HasConsented(ctx context.Context, owner string) (bool, error) {
	record, err := s.store.Find(ctx, owner)
	if errors.Is(err, sentinel.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return record.Accepted && record.Active(s.now()), nil
}
