// Package cache provides the Redis-backed and in-memory stores shared by the
// sale and auth services.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	appsale "github.com/pos/backend/internal/application/sale"
	"github.com/pos/backend/internal/infrastructure/auth"
	"github.com/pos/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// StoreFactory creates the replay store and token blacklist. Both share one
// Redis client when Redis is enabled and reachable.
type StoreFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
	pingTimeout           time.Duration

	client    *redis.Client
	clientErr error
	memory    *InMemoryCommitReplayStore
	checked   bool
}

// StoreFactoryOption is a functional option for configuring the factory
type StoreFactoryOption func(*StoreFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) StoreFactoryOption {
	return func(f *StoreFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to in-memory stores when
// Redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) StoreFactoryOption {
	return func(f *StoreFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewStoreFactory creates a new factory
func NewStoreFactory(cfg config.RedisConfig, opts ...StoreFactoryOption) *StoreFactory {
	f := &StoreFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
		pingTimeout:           5 * time.Second,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// redisClient returns the shared client, or nil when Redis is disabled or
// unreachable and fallback is allowed.
func (f *StoreFactory) redisClient() (*redis.Client, error) {
	if f.checked {
		return f.client, f.clientErr
	}
	f.checked = true

	if !f.redisConfig.Enabled {
		f.logger.Info("Redis disabled, using in-memory stores")
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     f.redisConfig.Addr(),
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), f.pingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		if !f.allowInMemoryFallback {
			f.clientErr = fmt.Errorf("redis required but unavailable: %w", err)
			return nil, f.clientErr
		}
		f.logger.Warn("Redis unavailable, falling back to in-memory stores. "+
			"Idempotency keys and revoked tokens are not shared between instances.",
			zap.String("addr", f.redisConfig.Addr()),
			zap.Error(err),
		)
		return nil, nil
	}

	f.logger.Info("Connected to Redis", zap.String("addr", f.redisConfig.Addr()))
	f.client = client
	return client, nil
}

// CreateReplayStore returns the commit replay store for the coordinator
func (f *StoreFactory) CreateReplayStore() (appsale.CommitReplayStore, error) {
	client, err := f.redisClient()
	if err != nil {
		return nil, err
	}
	if client != nil {
		return NewRedisCommitReplayStore(client, ""), nil
	}
	if f.memory == nil {
		f.memory = NewInMemoryCommitReplayStore()
	}
	return f.memory, nil
}

// CreateTokenBlacklist returns the blacklist used for logout
func (f *StoreFactory) CreateTokenBlacklist() (auth.TokenBlacklist, error) {
	client, err := f.redisClient()
	if err != nil {
		return nil, err
	}
	if client != nil {
		return auth.NewRedisTokenBlacklist(client), nil
	}
	return auth.NewInMemoryTokenBlacklist(), nil
}

// Close releases the Redis client and stops in-memory cleanup
func (f *StoreFactory) Close() error {
	var errs []error
	if f.memory != nil {
		errs = append(errs, f.memory.Close())
	}
	if f.client != nil {
		errs = append(errs, f.client.Close())
	}
	return errors.Join(errs...)
}
