package memory

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/phrazzld/wallet-wrapped/internal/store"
)

// Cache implements store.Cache in memory.
type Cache struct {
	c *gocache.Cache
}

// NewCache returns an empty Cache that purges expired entries every
// cleanupInterval.
func NewCache(cleanupInterval time.Duration) *Cache {
	return &Cache{c: gocache.New(gocache.NoExpiration, cleanupInterval)}
}

// Get implements store.Cache.
func (m *Cache) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := m.c.Get(key)
	if !ok {
		return nil, store.ErrCacheMiss
	}
	b, _ := v.([]byte)
	return append([]byte(nil), b...), nil
}

// Set implements store.Cache.
func (m *Cache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.c.Set(key, append([]byte(nil), value...), ttl)
	return nil
}
