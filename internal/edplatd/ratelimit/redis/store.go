// Package redis implements rate limit storage on Redis
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/khaledhosny129/Educational-platform/internal/edplatd/ratelimit"
)

// Store implements ratelimit.Store using fixed windows in Redis
type Store struct {
	client redis.UniversalClient
	prefix string
}

// NewStore creates a new Redis-backed rate limit store
func NewStore(client redis.UniversalClient) *Store {
	return &Store{client: client, prefix: "edplat:rate"}
}

// keyStr converts a LimitKey to a Redis key. Authenticated callers are
// counted by subject, anonymous ones by address.
func (s *Store) keyStr(key ratelimit.LimitKey) string {
	if key.Subject != "" {
		return fmt.Sprintf("%s:%s:user:%s", s.prefix, key.Type, key.Subject)
	}
	return fmt.Sprintf("%s:%s:ip:%s", s.prefix, key.Type, key.RemoteIP)
}

// Increment bumps the window counter, starting a new window when the key is
// fresh or has lost its expiry
func (s *Store) Increment(ctx context.Context, key ratelimit.LimitKey, limit ratelimit.Limit) (int, time.Duration, error) {
	redisKey := s.keyStr(key)

	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	ttl := pipe.PTTL(ctx, redisKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ratelimit.ErrStoreError, err)
	}

	count := int(incr.Val())
	resetIn := ttl.Val()
	if count == 1 || resetIn < 0 {
		if err := s.client.PExpire(ctx, redisKey, limit.Period).Err(); err != nil {
			return 0, 0, fmt.Errorf("%w: %v", ratelimit.ErrStoreError, err)
		}
		resetIn = limit.Period
	}

	return count, resetIn, nil
}

// Reset clears a rate limit counter
func (s *Store) Reset(ctx context.Context, key ratelimit.LimitKey) error {
	if err := s.client.Del(ctx, s.keyStr(key)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ratelimit.ErrStoreError, err)
	}
	return nil
}
