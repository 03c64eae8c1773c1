package api

import (
	"github.com/phrazzld/wallet-wrapped/internal/domain"
	"github.com/phrazzld/wallet-wrapped/internal/service"
)

// GenerateRequest is the body of POST /api/generate.
type GenerateRequest struct {
	Address string `json:"address" validate:"required"`
	Force   bool   `json:"force"`
	Async   bool   `json:"async"`
}

// CustomRequest is the body of POST /api/generate/custom.
type CustomRequest struct {
	Address       string `json:"address" validate:"required"`
	GeneratorName string `json:"generatorName" validate:"omitempty,max=64"`
	DataPrompt    string `json:"dataPrompt" validate:"required,max=8000"`
	MediaPrompt   string `json:"mediaPrompt" validate:"omitempty,max=8000"`
}

// TestGeneratorRequest is the body of POST /api/test-generator.
type TestGeneratorRequest struct {
	Address     string `json:"address" validate:"required"`
	GeneratorID string `json:"generatorId" validate:"required"`
}

// CardResponse wraps a single generated card.
type CardResponse struct {
	Success bool `json:"success"`
	*service.CardResult
}

// JobAcceptedResponse is returned for asynchronous deck generation.
type JobAcceptedResponse struct {
	JobID  string `json:"jobId"`
	Status string `json:"status"`
}

// GeneratorsResponse lists the registered generators.
type GeneratorsResponse struct {
	Generators []service.GeneratorInfo `json:"generators"`
}

// CollectionResponse is the cached collection of an address.
type CollectionResponse struct {
	Address   string        `json:"address"`
	Short     string        `json:"short"`
	Timestamp string        `json:"timestamp"`
	Count     int           `json:"count"`
	Cards     []domain.Card `json:"cards"`
}

// DeckResponse is an archived deck snapshot.
type DeckResponse struct {
	WrappedID  string         `json:"wrappedId"`
	Address    string         `json:"address"`
	Short      string         `json:"short"`
	SnapshotAt string         `json:"snapshotAt"`
	Count      int            `json:"count"`
	Cards      []domain.Card  `json:"cards"`
	Summary    map[string]any `json:"summary,omitempty"`
}

func collectionToResponse(c *domain.Collection) CollectionResponse {
	return CollectionResponse{
		Address:   c.Address,
		Short:     domain.ShortAddress(c.Address),
		Timestamp: domain.FormatSnapshot(c.Timestamp),
		Count:     len(c.Cards),
		Cards:     c.Cards,
	}
}

func deckToResponse(d *domain.Deck) DeckResponse {
	return DeckResponse{
		WrappedID:  d.Address + ":" + d.SnapshotAt,
		Address:    d.Address,
		Short:      domain.ShortAddress(d.Address),
		SnapshotAt: d.SnapshotAt,
		Count:      len(d.Cards),
		Cards:      d.Cards,
		Summary:    d.Summary,
	}
}
