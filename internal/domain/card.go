package domain

import (
	"fmt"
	"strings"
)

// Highlight is a small stat shown on a card, such as "ETH" → "$12,345".
// Image optionally points at artwork for the stat (NFT generators use it).
type Highlight struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Image string `json:"image,omitempty"`
}

// CardData is the structured copy produced for a card before media is added.
type CardData struct {
	LeadInText string      `json:"leadInText"`
	RevealText string      `json:"revealText"`
	Highlights []Highlight `json:"highlights,omitempty"`
	Footnote   string      `json:"footnote,omitempty"`
}

// Complete reports whether the data carries both a lead-in and a reveal line.
// Incomplete data never becomes a card.
func (d CardData) Complete() bool {
	return strings.TrimSpace(d.LeadInText) != "" && strings.TrimSpace(d.RevealText) != ""
}

// Card is one slide of a wrapped deck.
type Card struct {
	Kind       string      `json:"kind"`
	Order      int         `json:"order"`
	LeadInText string      `json:"leadInText"`
	RevealText string      `json:"revealText"`
	Highlights []Highlight `json:"highlights,omitempty"`
	Footnote   string      `json:"footnote,omitempty"`
	Media      *Media      `json:"media,omitempty"`
}

// NewCard assembles a card from complete data and optional media.
func NewCard(kind string, order int, data CardData, media *Media) (*Card, error) {
	card := &Card{
		Kind:       kind,
		Order:      order,
		LeadInText: data.LeadInText,
		RevealText: data.RevealText,
		Highlights: data.Highlights,
		Footnote:   data.Footnote,
		Media:      media,
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks the card invariants: a kind, both text lines, and valid
// media when present.
func (c *Card) Validate() error {
	if strings.TrimSpace(c.Kind) == "" {
		return ErrEmptyKind
	}
	if !c.Data().Complete() {
		return fmt.Errorf("%w: kind %s", ErrIncompleteCardData, c.Kind)
	}
	if c.Media != nil {
		if err := c.Media.Validate(); err != nil {
			return fmt.Errorf("card %s: %w", c.Kind, err)
		}
	}
	return nil
}

// Data returns the textual part of the card.
func (c *Card) Data() CardData {
	return CardData{
		LeadInText: c.LeadInText,
		RevealText: c.RevealText,
		Highlights: c.Highlights,
		Footnote:   c.Footnote,
	}
}
