package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func card(kind, reveal string, order int) Card {
	return Card{Kind: kind, Order: order, LeadInText: "lead", RevealText: reveal}
}

func TestMergeCards(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		existing []Card
		incoming []Card
		want     []Card
	}{
		{
			name:     "new value wins on kind collision",
			existing: []Card{card("x", "v1", 1)},
			incoming: []Card{card("x", "v2", 1), card("y", "b", 2)},
			want:     []Card{card("x", "v2", 1), card("y", "b", 2)},
		},
		{
			name:     "first-seen position is kept",
			existing: []Card{card("a", "1", 1), card("b", "1", 2)},
			incoming: []Card{card("c", "1", 3), card("a", "2", 1)},
			want:     []Card{card("a", "2", 1), card("b", "1", 2), card("c", "1", 3)},
		},
		{
			name:     "duplicates within incoming collapse to last",
			incoming: []Card{card("a", "1", 1), card("a", "2", 1), card("a", "3", 1)},
			want:     []Card{card("a", "3", 1)},
		},
		{
			name: "both empty",
			want: []Card{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, MergeCards(tt.existing, tt.incoming))
		})
	}
}

func TestMergeCards_DoesNotMutateInputs(t *testing.T) {
	t.Parallel()

	existing := []Card{card("x", "v1", 1)}
	incoming := []Card{card("x", "v2", 1)}
	_ = MergeCards(existing, incoming)

	assert.Equal(t, "v1", existing[0].RevealText)
}

func TestNewCollection(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, time.March, 1, 12, 0, 0, 0, time.FixedZone("X", 3600))
	c := NewCollection("0xabc", []Card{card("a", "1", 1), card("a", "2", 1)}, now)

	require.Len(t, c.Cards, 1)
	assert.Equal(t, time.UTC, c.Timestamp.Location())
	got, ok := c.Card("a")
	require.True(t, ok)
	assert.Equal(t, "2", got.RevealText)
	_, ok = c.Card("missing")
	assert.False(t, ok)
}

func TestSortCards(t *testing.T) {
	t.Parallel()

	cards := []Card{card("c", "", 20), card("a", "", 1), card("b", "", 10), card("d", "", 10)}
	SortCards(cards)

	kinds := make([]string, len(cards))
	for i, c := range cards {
		kinds[i] = c.Kind
	}
	assert.Equal(t, []string{"a", "b", "d", "c"}, kinds)
}

func TestNewDeck(t *testing.T) {
	t.Parallel()

	addr := "0xa92de6e0c17d4d9f006804b73b7b9726f0ec3842"
	deck, err := NewDeck(addr, "2024-06-01T00:00:00.000Z", []Card{card("b", "", 20), card("a", "", 1)})
	require.NoError(t, err)
	assert.Equal(t, DeckVersion, deck.Version)
	assert.Equal(t, "a", deck.Cards[0].Kind)

	_, err = NewDeck("not-an-address", "2024-06-01T00:00:00.000Z", nil)
	assert.ErrorIs(t, err, ErrInvalidAddress)

	_, err = NewDeck(addr, "", nil)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestFormatSnapshot(t *testing.T) {
	t.Parallel()

	ts := time.Date(2024, time.June, 1, 2, 3, 4, 5_000_000, time.FixedZone("X", -7200))
	assert.Equal(t, "2024-06-01T04:03:04.005Z", FormatSnapshot(ts))
}
