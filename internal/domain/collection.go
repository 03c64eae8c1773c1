package domain

import (
	"cmp"
	"slices"
	"time"
)

// Collection is the rolling set of cards currently cached for an address.
// It holds at most one card per kind. WrappedID names the full deck the
// collection was last replaced from; it is empty while the collection holds
// only individually generated cards.
type Collection struct {
	Address   string    `json:"address"`
	Cards     []Card    `json:"cards"`
	Timestamp time.Time `json:"timestamp"`
	WrappedID string    `json:"wrappedId,omitempty"`
}

// NewCollection returns a collection for address whose cards are the merge of
// the given slice with itself, so duplicate kinds collapse to their last value.
func NewCollection(address string, cards []Card, now time.Time) *Collection {
	return &Collection{
		Address:   address,
		Cards:     MergeCards(nil, cards),
		Timestamp: now.UTC(),
	}
}

// Card returns the card of the given kind, if present.
func (c *Collection) Card(kind string) (Card, bool) {
	for _, card := range c.Cards {
		if card.Kind == kind {
			return card, true
		}
	}
	return Card{}, false
}

// MergeCards is the single merge rule for collections. It concatenates
// existing then incoming and deduplicates by kind: the last value seen for a
// kind wins and is placed where that kind first appeared. Neither input is
// modified.
func MergeCards(existing, incoming []Card) []Card {
	merged := make([]Card, 0, len(existing)+len(incoming))
	index := make(map[string]int, len(existing)+len(incoming))

	for _, list := range [][]Card{existing, incoming} {
		for _, card := range list {
			if i, ok := index[card.Kind]; ok {
				merged[i] = card
				continue
			}
			index[card.Kind] = len(merged)
			merged = append(merged, card)
		}
	}

	return merged
}

// SortCards orders cards by Order ascending. Cards with equal order keep their
// relative position.
func SortCards(cards []Card) {
	slices.SortStableFunc(cards, func(a, b Card) int {
		return cmp.Compare(a.Order, b.Order)
	})
}
