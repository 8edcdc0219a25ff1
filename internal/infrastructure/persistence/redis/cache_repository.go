// Package redis adapts the Redis client to the engine's cache port.
// Scoring services treat every error returned here as a cache miss, so
// logging stays at debug for reads and the caller decides what to do.
package redis

import (
	"context"
	"time"

	"github.com/fitplate/engine/internal/infrastructure/cache"
	"github.com/fitplate/engine/internal/ports/outbound"
	"github.com/fitplate/engine/pkg/errors"
	"go.uber.org/zap"
)

// CacheRepository implements outbound.CacheRepository over Redis.
type CacheRepository struct {
	client *cache.RedisClient
	logger *zap.Logger
}

// NewCacheRepository creates a Redis-backed cache repository.
func NewCacheRepository(client *cache.RedisClient, logger *zap.Logger) outbound.CacheRepository {
	return &CacheRepository{
		client: client,
		logger: logger,
	}
}

// Get retrieves a value from cache. A missing key is returned as
// cache.ErrKeyNotFound, not wrapped as a failure.
func (r *CacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, key)
	if err != nil {
		r.logger.Debug("Cache get failed", zap.String("key", key), zap.Error(err))
		if err == cache.ErrKeyNotFound {
			return nil, err
		}
		return nil, errors.NewCacheError("get", err)
	}
	return data, nil
}

// Set stores a value in cache with TTL
func (r *CacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := r.client.Set(ctx, key, value, ttl); err != nil {
		r.logger.Error("Cache set failed", zap.String("key", key), zap.Error(err))
		return errors.NewCacheError("set", err)
	}
	return nil
}

// Delete removes a value from cache
func (r *CacheRepository) Delete(ctx context.Context, key string) error {
	if err := r.client.Delete(ctx, key); err != nil {
		r.logger.Error("Cache delete failed", zap.String("key", key), zap.Error(err))
		return errors.NewCacheError("delete", err)
	}
	return nil
}

// Exists checks if a key exists in cache
func (r *CacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	n, err := r.client.Exists(ctx, key)
	if err != nil {
		r.logger.Error("Cache exists check failed", zap.String("key", key), zap.Error(err))
		return false, errors.NewCacheError("exists", err)
	}
	return n > 0, nil
}
