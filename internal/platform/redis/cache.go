// Package redis implements the ephemeral key-value cache on top of Redis.
// Values are plain strings with a per-key TTL; expiry is left to Redis.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/topster/topster-api/internal/config"
	"github.com/topster/topster-api/internal/store"
)

// Cache implements store.Cache using a go-redis client.
type Cache struct {
	client goredis.UniversalClient
}

var _ store.Cache = (*Cache)(nil)

// NewClient builds a go-redis client from configuration.
func NewClient(cfg config.RedisConfig) *goredis.Client {
	return goredis.NewClient(&goredis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
}

// NewCache wraps an existing client. The caller owns the client's lifecycle.
func NewCache(client goredis.UniversalClient) *Cache {
	return &Cache{client: client}
}

// Ping verifies that Redis is reachable.
func (c *Cache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Get implements store.Cache.Get.
func (c *Cache) Get(ctx context.Context, key string) (string, error) {
	value, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return "", store.ErrCacheMiss
		}
		return "", fmt.Errorf("redis get failed: %w", err)
	}
	return value, nil
}

// Set implements store.Cache.Set.
func (c *Cache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("redis set: ttl must be positive, got %s", ttl)
	}
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// Increment implements store.Cache.Increment.
func (c *Cache) Increment(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	if ttl <= 0 {
		return 0, fmt.Errorf("redis incr: ttl must be positive, got %s", ttl)
	}
	n, err := c.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("redis incr failed: %w", err)
	}
	if n == 1 {
		if err := c.client.Expire(ctx, key, ttl).Err(); err != nil {
			return 0, fmt.Errorf("redis expire failed: %w", err)
		}
	}
	return n, nil
}

// Delete implements store.Cache.Delete.
func (c *Cache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del failed: %w", err)
	}
	return nil
}
