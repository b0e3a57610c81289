package favorites

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// Key layout:
//
//	favorites:owner:<owner>:sites        set of site ids with favorites
//	favorites:owner:<owner>:site:<site>  set of post ids
//	favorites:count:<site>:<post>        favorite total
const keyPrefix = "favorites:"

// addScript adds a post to an owner's site set and bumps the total when it
// was not there yet.
var addScript = redis.NewScript(`
if redis.call('SADD', KEYS[1], ARGV[1]) == 0 then
	return 0
end
redis.call('SADD', KEYS[2], ARGV[2])
redis.call('INCR', KEYS[3])
return 1
`)

// removeScript drops a post from an owner's site set and lowers the total,
// deleting totals that reach zero.
var removeScript = redis.NewScript(`
if redis.call('SREM', KEYS[1], ARGV[1]) == 0 then
	return 0
end
if redis.call('SCARD', KEYS[1]) == 0 then
	redis.call('SREM', KEYS[2], ARGV[2])
end
if redis.call('DECR', KEYS[3]) <= 0 then
	redis.call('DEL', KEYS[3])
end
return 1
`)

// RedisStore keeps favorites in Redis sets.
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedisStore creates a RedisStore on client.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

func ownerSitesKey(owner string) string {
	return keyPrefix + "owner:" + owner + ":sites"
}

func ownerSiteKey(owner string, siteID int64) string {
	return keyPrefix + "owner:" + owner + ":site:" + strconv.FormatInt(siteID, 10)
}

func countKey(fav Favorite) string {
	return fmt.Sprintf("%scount:%d:%d", keyPrefix, fav.SiteID, fav.PostID)
}

func (s *RedisStore) Add(ctx context.Context, owner string, fav Favorite) (bool, error) {
	keys := []string{ownerSiteKey(owner, fav.SiteID), ownerSitesKey(owner), countKey(fav)}
	added, err := addScript.Run(ctx, s.client, keys, fav.PostID, fav.SiteID).Int()
	if err != nil {
		return false, fmt.Errorf("add favorite: %w", err)
	}
	return added == 1, nil
}

func (s *RedisStore) Remove(ctx context.Context, owner string, fav Favorite) (bool, error) {
	keys := []string{ownerSiteKey(owner, fav.SiteID), ownerSitesKey(owner), countKey(fav)}
	removed, err := removeScript.Run(ctx, s.client, keys, fav.PostID, fav.SiteID).Int()
	if err != nil {
		return false, fmt.Errorf("remove favorite: %w", err)
	}
	return removed == 1, nil
}

func (s *RedisStore) List(ctx context.Context, owner string) (map[int64][]int64, error) {
	siteIDs, err := s.client.SMembers(ctx, ownerSitesKey(owner)).Result()
	if err != nil {
		return nil, fmt.Errorf("list favorite sites: %w", err)
	}

	out := make(map[int64][]int64, len(siteIDs))
	for _, raw := range siteIDs {
		siteID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			continue
		}
		members, err := s.client.SMembers(ctx, ownerSiteKey(owner, siteID)).Result()
		if err != nil {
			return nil, fmt.Errorf("list favorites: %w", err)
		}
		posts := parseIDs(members)
		if len(posts) > 0 {
			out[siteID] = posts
		}
	}
	return out, nil
}

func (s *RedisStore) Clear(ctx context.Context, owner string, siteID int64) error {
	members, err := s.client.SMembers(ctx, ownerSiteKey(owner, siteID)).Result()
	if err != nil {
		return fmt.Errorf("clear favorites: %w", err)
	}
	for _, postID := range parseIDs(members) {
		if _, err := s.Remove(ctx, owner, Favorite{SiteID: siteID, PostID: postID}); err != nil {
			return err
		}
	}
	return nil
}

func (s *RedisStore) Count(ctx context.Context, fav Favorite) (int64, error) {
	count, err := s.client.Get(ctx, countKey(fav)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("count favorites: %w", err)
	}
	return count, nil
}

func parseIDs(members []string) []int64 {
	ids := make([]int64, 0, len(members))
	for _, m := range members {
		if id, err := strconv.ParseInt(m, 10, 64); err == nil {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
