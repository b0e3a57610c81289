package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// slidingWindowScript trims the window, then admits the request when room is
// left. Returns {allowed, count, oldest_ms}.
var slidingWindowScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])
redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)
local count = redis.call('ZCARD', key)
local allowed = 0
if count < limit then
	redis.call('ZADD', key, now, ARGV[4])
	count = count + 1
	allowed = 1
end
redis.call('PEXPIRE', key, window)
local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
local oldestScore = now
if oldest[2] then
	oldestScore = tonumber(oldest[2])
end
return {allowed, count, oldestScore}
`)

// RedisStore keeps sliding windows in Redis sorted sets so every instance
// shares them.
type RedisStore struct {
	client redis.UniversalClient
	now    func() time.Time
}

func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client, now: time.Now}
}

func (s *RedisStore) Allow(ctx context.Context, key string, limit Limit) (Result, error) {
	now := s.now()
	vals, err := slidingWindowScript.Run(ctx, s.client, []string{key},
		now.UnixMilli(), limit.Window.Milliseconds(), limit.Requests, uuid.NewString(),
	).Int64Slice()
	if err != nil {
		return Result{}, fmt.Errorf("rate limit check: %w", err)
	}
	if len(vals) != 3 {
		return Result{}, fmt.Errorf("rate limit check: unexpected reply %v", vals)
	}

	count := int(vals[1])
	resetAt := time.UnixMilli(vals[2]).Add(limit.Window)
	res := Result{
		Allowed: vals[0] == 1,
		Limit:   limit.Requests,
		ResetAt: resetAt,
	}
	if res.Allowed {
		res.Remaining = max(limit.Requests-count, 0)
	} else {
		res.RetryAfter = retryAfterSeconds(resetAt, now)
	}
	return res, nil
}
