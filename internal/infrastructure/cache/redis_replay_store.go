package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	appsale "github.com/pos/backend/internal/application/sale"
	"github.com/redis/go-redis/v9"
)

const (
	defaultReplayKeyPrefix = "pos:sale:commit:"
	pendingMarker          = "pending"
)

// Ensure RedisCommitReplayStore implements CommitReplayStore
var _ appsale.CommitReplayStore = (*RedisCommitReplayStore)(nil)

// releaseScript deletes a key only while it still holds the pending marker, so
// a late Release never drops a completed entry.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisCommitReplayStore keeps idempotency keys in Redis so every server
// instance sees the same reservations.
type RedisCommitReplayStore struct {
	client    redis.UniversalClient
	keyPrefix string
}

// NewRedisCommitReplayStore creates a store over an existing client
func NewRedisCommitReplayStore(client redis.UniversalClient, keyPrefix string) *RedisCommitReplayStore {
	if keyPrefix == "" {
		keyPrefix = defaultReplayKeyPrefix
	}
	return &RedisCommitReplayStore{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// Reserve claims key with SETNX. When the key exists its value tells a
// finished commit (the sale id) apart from one still running.
func (s *RedisCommitReplayStore) Reserve(ctx context.Context, key string, ttl time.Duration) (int64, bool, error) {
	redisKey := s.keyPrefix + key

	// Two rounds cover a key that expires between SETNX and GET.
	for range 2 {
		ok, err := s.client.SetNX(ctx, redisKey, pendingMarker, ttl).Result()
		if err != nil {
			return 0, false, fmt.Errorf("failed to reserve idempotency key: %w", err)
		}
		if ok {
			return 0, true, nil
		}

		val, err := s.client.Get(ctx, redisKey).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return 0, false, fmt.Errorf("failed to read idempotency key: %w", err)
		}
		if val == pendingMarker {
			return 0, false, nil
		}
		saleID, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return 0, false, fmt.Errorf("corrupt idempotency entry %q: %w", redisKey, err)
		}
		return saleID, false, nil
	}
	return 0, false, fmt.Errorf("idempotency key %q kept expiring during reserve", key)
}

// Complete stores the sale id for key
func (s *RedisCommitReplayStore) Complete(ctx context.Context, key string, saleID int64, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.keyPrefix+key, strconv.FormatInt(saleID, 10), ttl).Err(); err != nil {
		return fmt.Errorf("failed to complete idempotency key: %w", err)
	}
	return nil
}

// Release drops a pending reservation
func (s *RedisCommitReplayStore) Release(ctx context.Context, key string) error {
	if err := releaseScript.Run(ctx, s.client, []string{s.keyPrefix + key}, pendingMarker).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("failed to release idempotency key: %w", err)
	}
	return nil
}
