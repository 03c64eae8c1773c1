package domain

import (
	"fmt"
	"time"
)

// DeckVersion is the schema version written into new decks.
const DeckVersion = 1

// SnapshotLayout formats snapshot times so that lexicographic order matches
// chronological order.
const SnapshotLayout = "2006-01-02T15:04:05.000Z"

// Deck is an immutable archived snapshot of a generation run. Summary is a
// free-form object.
type Deck struct {
	Address    string         `json:"address"`
	SnapshotAt string         `json:"snapshotAt"`
	Version    int            `json:"version"`
	Cards      []Card         `json:"cards"`
	Summary    map[string]any `json:"summary,omitempty"`
}

// FormatSnapshot renders t in UTC using SnapshotLayout.
func FormatSnapshot(t time.Time) string {
	return t.UTC().Format(SnapshotLayout)
}

// NewDeck builds a deck for an already normalized address. Cards are copied
// and sorted by order.
func NewDeck(address, snapshotAt string, cards []Card) (*Deck, error) {
	if !IsValidAddress(address) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAddress, address)
	}
	if snapshotAt == "" {
		return nil, fmt.Errorf("%w: snapshotAt cannot be empty", ErrValidation)
	}

	sorted := make([]Card, len(cards))
	copy(sorted, cards)
	SortCards(sorted)

	return &Deck{
		Address:    address,
		SnapshotAt: snapshotAt,
		Version:    DeckVersion,
		Cards:      sorted,
	}, nil
}
