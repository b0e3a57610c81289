package consent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"favorites/pkg/platform/sentinel"
)

const consentKeyPrefix = "consent:"

// RedisStore keeps consent records as JSON values that expire with the
// record.
type RedisStore struct {
	client redis.UniversalClient
	now    func() time.Time
}

// NewRedisStore creates a RedisStore on client.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client, now: time.Now}
}

func (s *RedisStore) Save(ctx context.Context, record Record) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal consent: %w", err)
	}
	var ttl time.Duration
	if !record.ExpiresAt.IsZero() {
		ttl = record.ExpiresAt.Sub(s.now())
		if ttl <= 0 {
			return s.client.Del(ctx, consentKeyPrefix+record.Owner).Err()
		}
	}
	if err := s.client.Set(ctx, consentKeyPrefix+record.Owner, data, ttl).Err(); err != nil {
		return fmt.Errorf("save consent: %w", err)
	}
	return nil
}

func (s *RedisStore) Find(ctx context.Context, owner string) (Record, error) {
	data, err := s.client.Get(ctx, consentKeyPrefix+owner).Bytes()
	if errors.Is(err, redis.Nil) {
		return Record{}, sentinel.ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("find consent: %w", err)
	}
	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		return Record{}, fmt.Errorf("decode consent: %w", err)
	}
	return record, nil
}
