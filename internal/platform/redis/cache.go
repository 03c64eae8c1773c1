// Package redis implements store.Cache on Redis.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/phrazzld/wallet-wrapped/internal/store"
	goredis "github.com/redis/go-redis/v9"
)

// Cache implements store.Cache with SET ... EX.
type Cache struct {
	client goredis.UniversalClient
}

// NewCache wraps an existing client.
func NewCache(client goredis.UniversalClient) (*Cache, error) {
	if client == nil {
		return nil, fmt.Errorf("%w: redis client cannot be nil", store.ErrInvalidEntity)
	}
	return &Cache{client: client}, nil
}

// Open connects to the Redis server at url (redis:// or rediss://) and
// verifies the connection.
func Open(ctx context.Context, url string) (*Cache, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := goredis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &Cache{client: client}, nil
}

// Get implements store.Cache.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, store.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return b, nil
}

// Set implements store.Cache.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Close closes the underlying client.
func (c *Cache) Close() error {
	return c.client.Close()
}
