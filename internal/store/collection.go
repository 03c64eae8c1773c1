package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/phrazzld/wallet-wrapped/internal/domain"
)

// DefaultCollectionTTL is how long a collection lives after its last write.
const DefaultCollectionTTL = 24 * time.Hour

// CollectionKey returns the cache key for address.
func CollectionKey(address string) string {
	return "collection:" + strings.ToLower(address)
}

// CollectionStore keeps each address's current cards in a Cache.
//
// Reads and writes never fail: backend errors are logged and a read reports
// no collection. Every write refreshes the TTL. Concurrent writes to one
// address race and the last one wins.
type CollectionStore struct {
	cache  Cache
	ttl    time.Duration
	now    func() time.Time
	logger *slog.Logger
}

// CollectionOption customizes a CollectionStore.
type CollectionOption func(*CollectionStore)

// WithTTL overrides DefaultCollectionTTL.
func WithTTL(ttl time.Duration) CollectionOption {
	return func(s *CollectionStore) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithClock sets the clock used to timestamp collections.
func WithClock(now func() time.Time) CollectionOption {
	return func(s *CollectionStore) {
		if now != nil {
			s.now = now
		}
	}
}

// NewCollectionStore creates a CollectionStore over cache.
func NewCollectionStore(cache Cache, logger *slog.Logger, opts ...CollectionOption) (*CollectionStore, error) {
	if cache == nil {
		return nil, fmt.Errorf("%w: cache cannot be nil", ErrInvalidEntity)
	}
	if logger == nil {
		return nil, fmt.Errorf("%w: logger cannot be nil", ErrInvalidEntity)
	}
	s := &CollectionStore{
		cache:  cache,
		ttl:    DefaultCollectionTTL,
		now:    time.Now,
		logger: logger.With("component", "collection_store"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Get returns the collection for address, or nil when there is none or it
// cannot be read.
func (s *CollectionStore) Get(ctx context.Context, address string) *domain.Collection {
	key := CollectionKey(address)
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			s.logger.ErrorContext(ctx, "failed to read collection", "key", key, "error", err)
		}
		return nil
	}

	var c domain.Collection
	if err := json.Unmarshal(raw, &c); err != nil {
		s.logger.ErrorContext(ctx, "failed to decode collection", "key", key, "error", err)
		return nil
	}
	return &c
}

// UpsertCard replaces the card of the same kind in the address's collection,
// or appends it, and refreshes the TTL. The deck the collection came from is
// kept.
func (s *CollectionStore) UpsertCard(ctx context.Context, address string, card domain.Card) {
	var existing []domain.Card
	var wrappedID string
	if c := s.Get(ctx, address); c != nil {
		existing = c.Cards
		wrappedID = c.WrappedID
		_, replaced := c.Card(card.Kind)
		s.logger.DebugContext(ctx, "upserting card", "address", address, "kind", card.Kind, "replaced", replaced)
	}
	next := domain.NewCollection(strings.ToLower(address), domain.MergeCards(existing, []domain.Card{card}), s.now())
	next.WrappedID = wrappedID
	s.write(ctx, next)
}

// ReplaceAll merges collection's cards into whatever is stored for its
// address, incoming cards winning by kind, and refreshes the TTL. The stored
// WrappedID becomes collection's.
func (s *CollectionStore) ReplaceAll(ctx context.Context, collection domain.Collection) {
	var existing []domain.Card
	if c := s.Get(ctx, collection.Address); c != nil {
		existing = c.Cards
	}
	ts := collection.Timestamp
	if ts.IsZero() {
		ts = s.now()
	}
	next := domain.NewCollection(strings.ToLower(collection.Address), domain.MergeCards(existing, collection.Cards), ts)
	next.WrappedID = collection.WrappedID
	s.write(ctx, next)
}

func (s *CollectionStore) write(ctx context.Context, c *domain.Collection) {
	key := CollectionKey(c.Address)
	raw, err := json.Marshal(c)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to encode collection", "key", key, "error", err)
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.ttl); err != nil {
		s.logger.ErrorContext(ctx, "failed to write collection", "key", key, "error", err)
		return
	}
	s.logger.DebugContext(ctx, "collection written", "key", key, "cards", len(c.Cards))
}
