package store

import (
	"context"
	"time"
)

// Cache is a key/value store with per-key expiry.
type Cache interface {
	// Get returns the value stored under key, or ErrCacheMiss.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores value under key for ttl, replacing any previous value and
	// expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// ObjectStore is a create-only blob store.
type ObjectStore interface {
	// Put stores data under key and returns a URL for it. It fails with
	// ErrObjectExists when key is already taken and never overwrites.
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	// List returns every key starting with prefix, in no particular order.
	List(ctx context.Context, prefix string) ([]string, error)
	// Get returns the data stored under key, or ErrObjectNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
}
