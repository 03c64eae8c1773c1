package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/phrazzld/wallet-wrapped/internal/domain"
)

const deckPrefix = "wrapped/"

// DeckKey returns the object key of a deck snapshot.
func DeckKey(address, snapshotAt string) string {
	return deckPrefix + strings.ToLower(address) + "/" + snapshotAt + ".json"
}

// SaveResult describes a saved deck.
type SaveResult struct {
	Key string
	URL string
}

// DeckArchive stores deck snapshots in an ObjectStore. Snapshots are never
// overwritten.
type DeckArchive struct {
	objects ObjectStore
	logger  *slog.Logger
}

// NewDeckArchive creates a DeckArchive over objects.
func NewDeckArchive(objects ObjectStore, logger *slog.Logger) (*DeckArchive, error) {
	if objects == nil {
		return nil, fmt.Errorf("%w: object store cannot be nil", ErrInvalidEntity)
	}
	if logger == nil {
		return nil, fmt.Errorf("%w: logger cannot be nil", ErrInvalidEntity)
	}
	return &DeckArchive{objects: objects, logger: logger.With("component", "deck_archive")}, nil
}

// Save writes deck under wrapped/<address>/<snapshotAt>.json. It fails with
// ErrSnapshotExists when that snapshot was already saved.
func (a *DeckArchive) Save(ctx context.Context, deck domain.Deck) (SaveResult, error) {
	if deck.SnapshotAt == "" || !domain.IsValidAddress(deck.Address) {
		return SaveResult{}, fmt.Errorf("%w: deck needs a valid address and snapshotAt", ErrInvalidEntity)
	}
	key := DeckKey(deck.Address, deck.SnapshotAt)

	raw, err := json.Marshal(deck)
	if err != nil {
		return SaveResult{}, NewStoreError("deck", "save", "encode failed", err)
	}

	url, err := a.objects.Put(ctx, key, raw, "application/json")
	if err != nil {
		if errors.Is(err, ErrObjectExists) {
			return SaveResult{}, fmt.Errorf("%w: %s", ErrSnapshotExists, key)
		}
		return SaveResult{}, NewStoreError("deck", "save", "put failed", err)
	}

	a.logger.InfoContext(ctx, "deck archived", "key", key, "cards", len(deck.Cards))
	return SaveResult{Key: key, URL: url}, nil
}

// GetLatest returns the most recent deck for address, or nil when none has
// been saved. Snapshot names sort chronologically, so the latest is the
// lexicographically greatest key.
func (a *DeckArchive) GetLatest(ctx context.Context, address string) (*domain.Deck, error) {
	prefix := deckPrefix + strings.ToLower(address) + "/"
	keys, err := a.objects.List(ctx, prefix)
	if err != nil {
		return nil, NewStoreError("deck", "list", "list failed", err)
	}

	keys = slices.DeleteFunc(keys, func(k string) bool { return !strings.HasSuffix(k, ".json") })
	if len(keys) == 0 {
		return nil, nil
	}
	latest := slices.Max(keys)

	raw, err := a.objects.Get(ctx, latest)
	if err != nil {
		if errors.Is(err, ErrObjectNotFound) {
			return nil, nil
		}
		return nil, NewStoreError("deck", "get", "get failed", err)
	}

	var deck domain.Deck
	if err := json.Unmarshal(raw, &deck); err != nil {
		return nil, NewStoreError("deck", "get", "decode failed", err)
	}
	return &deck, nil
}
