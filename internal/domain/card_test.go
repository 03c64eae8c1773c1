package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCardData_Complete(t *testing.T) {
	t.Parallel()

	assert.True(t, CardData{LeadInText: "Your biggest bag:", RevealText: "ETH"}.Complete())
	assert.False(t, CardData{LeadInText: "", RevealText: "ETH"}.Complete())
	assert.False(t, CardData{LeadInText: "Your biggest bag:", RevealText: "   "}.Complete())
}

func TestNewCard(t *testing.T) {
	t.Parallel()

	data := CardData{
		LeadInText: "This cycle, your biggest bag…",
		RevealText: "…$23,481 in ETH.",
		Highlights: []Highlight{{Label: "ETH", Value: "$23,481"}},
		Footnote:   "heuristic PnL",
	}

	t.Run("valid without media", func(t *testing.T) {
		t.Parallel()
		card, err := NewCard("top-tokens", 10, data, nil)
		require.NoError(t, err)
		assert.Equal(t, "top-tokens", card.Kind)
		assert.Equal(t, 10, card.Order)
		assert.Equal(t, data, card.Data())
		assert.Nil(t, card.Media)
	})

	t.Run("valid with svg media", func(t *testing.T) {
		t.Parallel()
		media, err := NewSVGMedia("<svg></svg>", "bars")
		require.NoError(t, err)
		card, err := NewCard("top-tokens", 10, data, media)
		require.NoError(t, err)
		assert.Equal(t, MediaKindSVG, card.Media.Kind)
	})

	t.Run("empty kind", func(t *testing.T) {
		t.Parallel()
		_, err := NewCard(" ", 10, data, nil)
		assert.ErrorIs(t, err, ErrEmptyKind)
	})

	t.Run("incomplete data", func(t *testing.T) {
		t.Parallel()
		_, err := NewCard("top-tokens", 10, CardData{RevealText: "x"}, nil)
		assert.ErrorIs(t, err, ErrIncompleteCardData)
	})

	t.Run("invalid media", func(t *testing.T) {
		t.Parallel()
		_, err := NewCard("top-tokens", 10, data, &Media{Kind: MediaKindURL, Src: "http://x"})
		assert.ErrorIs(t, err, ErrInvalidMedia)
	})
}
