package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/wallet-wrapped/internal/domain"
	"github.com/phrazzld/wallet-wrapped/internal/generation"
	"github.com/phrazzld/wallet-wrapped/internal/generators"
	"github.com/phrazzld/wallet-wrapped/internal/store"
)

// Registry is the generator lookup the service runs against.
// *generators.Registry implements it.
type Registry interface {
	Get(id string) (generation.Spec, error)
	Specs() []generation.Spec
}

// BatchBuilder builds a set of specs. *generation.Orchestrator implements it.
type BatchBuilder interface {
	BuildAll(ctx context.Context, vars generation.Vars, specs []generation.Spec) generation.BatchResult
}

// CollectionStore is the rolling per-address card cache.
// *store.CollectionStore implements it.
type CollectionStore interface {
	Get(ctx context.Context, address string) *domain.Collection
	UpsertCard(ctx context.Context, address string, card domain.Card)
	ReplaceAll(ctx context.Context, collection domain.Collection)
}

// DeckArchive persists deck snapshots. *store.DeckArchive implements it.
type DeckArchive interface {
	Save(ctx context.Context, deck domain.Deck) (store.SaveResult, error)
	GetLatest(ctx context.Context, address string) (*domain.Deck, error)
}

// GeneratorInfo describes a registered generator.
type GeneratorInfo struct {
	ID        string   `json:"id"`
	Version   int      `json:"version"`
	Order     int      `json:"order"`
	Requires  []string `json:"requires,omitempty"`
	DataMode  string   `json:"dataMode"`
	MediaMode string   `json:"mediaMode"`
}

// DeckResult is the outcome of GenerateDeck.
type DeckResult struct {
	WrappedID  string        `json:"wrappedId"`
	URL        string        `json:"url,omitempty"`
	Count      int           `json:"count"`
	Short      string        `json:"short"`
	Address    string        `json:"address"`
	SnapshotAt string        `json:"snapshotAt"`
	Cards      []domain.Card `json:"cards"`
	Cached     bool          `json:"cached"`
	Failures   []FailureInfo `json:"failures,omitempty"`
}

// FailureInfo reports a generator that produced no card.
type FailureInfo struct {
	Kind   string `json:"kind"`
	Reason string `json:"reason"`
}

// CardResult is the outcome of generating a single card.
type CardResult struct {
	GeneratorID string       `json:"generatorId"`
	Address     string       `json:"address"`
	Card        *domain.Card `json:"card"`
	Timestamp   string       `json:"timestamp"`
	Cached      bool         `json:"cached"`
}

// WrappedService generates and reads wrapped decks.
type WrappedService struct {
	registry     Registry
	builder      generation.CardBuilder
	orchestrator BatchBuilder
	collections  CollectionStore
	archive      DeckArchive
	logger       *slog.Logger
	now          func() time.Time
}

// Option configures a WrappedService.
type Option func(*WrappedService)

// WithClock overrides the clock used for snapshot times.
func WithClock(now func() time.Time) Option {
	return func(s *WrappedService) {
		s.now = now
	}
}

// NewWrappedService creates a WrappedService. Every dependency is required.
func NewWrappedService(
	registry Registry,
	builder generation.CardBuilder,
	orchestrator BatchBuilder,
	collections CollectionStore,
	archive DeckArchive,
	logger *slog.Logger,
	opts ...Option,
) (*WrappedService, error) {
	deps := []struct {
		name string
		nil  bool
	}{
		{"registry", registry == nil},
		{"builder", builder == nil},
		{"orchestrator", orchestrator == nil},
		{"collections", collections == nil},
		{"archive", archive == nil},
		{"logger", logger == nil},
	}
	for _, d := range deps {
		if d.nil {
			return nil, &ServiceError{
				Operation: "create_service",
				Message:   d.name + " cannot be nil",
			}
		}
	}

	s := &WrappedService{
		registry:     registry,
		builder:      builder,
		orchestrator: orchestrator,
		collections:  collections,
		archive:      archive,
		logger:       logger.With("component", "wrapped_service"),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// GenerateDeck builds every registered generator for address. Unless force is
// set, a cached collection that came from a full deck is returned instead of
// running generators; cards added one at a time do not count as a deck. Fresh
// decks are archived and replace the cached collection.
func (s *WrappedService) GenerateDeck(ctx context.Context, address string, force bool) (*DeckResult, error) {
	addr, err := domain.NormalizeAddress(address)
	if err != nil {
		return nil, err
	}
	log := s.logger.With("address", addr)

	if !force {
		if c := s.collections.Get(ctx, addr); c != nil && c.WrappedID != "" && len(c.Cards) > 0 {
			log.InfoContext(ctx, "serving cached collection", "cards", len(c.Cards))
			return cachedDeckResult(addr, c), nil
		}
	}

	now := s.now()
	snapshotAt := domain.FormatSnapshot(now)
	specs := s.registry.Specs()

	batch := s.orchestrator.BuildAll(ctx, generation.NewVars(addr, snapshotAt), specs)
	failures := failureInfos(batch.Failures)
	if batch.Empty() {
		log.WarnContext(ctx, "no cards generated", "generators", len(specs), "failures", len(failures))
		return nil, fmt.Errorf("%w: %d generators failed", ErrNoCardsGenerated, len(failures))
	}

	deck, err := domain.NewDeck(addr, snapshotAt, batch.Cards)
	if err != nil {
		return nil, NewServiceError("generate_deck", "failed to assemble deck", err)
	}

	result := &DeckResult{
		WrappedID:  addr + ":" + snapshotAt,
		Count:      len(deck.Cards),
		Short:      domain.ShortAddress(addr),
		Address:    addr,
		SnapshotAt: snapshotAt,
		Cards:      deck.Cards,
		Failures:   failures,
	}

	saved, err := s.archive.Save(ctx, *deck)
	if err != nil {
		log.ErrorContext(ctx, "failed to archive deck", "snapshot_at", snapshotAt, "error", err)
	} else {
		result.URL = saved.URL
	}

	collection := domain.NewCollection(addr, deck.Cards, now)
	collection.WrappedID = result.WrappedID
	s.collections.ReplaceAll(ctx, *collection)

	log.InfoContext(ctx, "deck generated",
		"wrapped_id", result.WrappedID,
		"cards", result.Count,
		"failures", len(failures))
	return result, nil
}

// GenerateCard builds one registered generator and upserts its card into the
// address's collection.
func (s *WrappedService) GenerateCard(ctx context.Context, address, generatorID string) (*CardResult, error) {
	addr, err := domain.NormalizeAddress(address)
	if err != nil {
		return nil, err
	}
	spec, err := s.registry.Get(generatorID)
	if err != nil {
		return nil, err
	}
	return s.buildOne(ctx, "generate_card", addr, spec)
}

// GenerateCustom builds an ad hoc generator from user prompts and upserts the
// card into the address's collection.
func (s *WrappedService) GenerateCustom(ctx context.Context, address, name, dataPrompt, mediaPrompt string) (*CardResult, error) {
	addr, err := domain.NormalizeAddress(address)
	if err != nil {
		return nil, err
	}
	spec, err := generators.Custom(name, dataPrompt, mediaPrompt)
	if err != nil {
		return nil, err
	}
	return s.buildOne(ctx, "generate_custom", addr, spec)
}

func (s *WrappedService) buildOne(ctx context.Context, op, addr string, spec generation.Spec) (*CardResult, error) {
	snapshotAt := domain.FormatSnapshot(s.now())

	res, err := s.builder.Build(ctx, spec, generation.NewVars(addr, snapshotAt))
	if err != nil {
		return nil, NewServiceError(op, "card build failed", err)
	}
	if !res.Produced() {
		return nil, fmt.Errorf("%w: %s: %s", ErrNoCardProduced, spec.Kind, res.Reason)
	}

	s.collections.UpsertCard(ctx, addr, *res.Card)
	s.logger.InfoContext(ctx, "card generated", "address", addr, "kind", spec.Kind)

	return &CardResult{
		GeneratorID: spec.Kind,
		Address:     addr,
		Card:        res.Card,
		Timestamp:   snapshotAt,
	}, nil
}

// Collection returns the cached collection of address with cards sorted by
// order.
func (s *WrappedService) Collection(ctx context.Context, address string) (*domain.Collection, error) {
	addr, err := domain.NormalizeAddress(address)
	if err != nil {
		return nil, err
	}
	c := s.collections.Get(ctx, addr)
	if c == nil {
		return nil, fmt.Errorf("%w: no collection for %s", ErrNotFound, addr)
	}
	domain.SortCards(c.Cards)
	return c, nil
}

// LatestDeck returns the most recently archived deck of address.
func (s *WrappedService) LatestDeck(ctx context.Context, address string) (*domain.Deck, error) {
	addr, err := domain.NormalizeAddress(address)
	if err != nil {
		return nil, err
	}
	deck, err := s.archive.GetLatest(ctx, addr)
	if err != nil {
		return nil, NewServiceError("latest_deck", "failed to load deck", err)
	}
	if deck == nil {
		return nil, fmt.Errorf("%w: no deck for %s", ErrNotFound, addr)
	}
	return deck, nil
}

// Generators lists the registered generators in order.
func (s *WrappedService) Generators() []GeneratorInfo {
	specs := s.registry.Specs()
	out := make([]GeneratorInfo, 0, len(specs))
	for _, spec := range specs {
		info := GeneratorInfo{
			ID:        spec.Kind,
			Version:   spec.Version,
			Order:     spec.Order,
			DataMode:  spec.DataMode(),
			MediaMode: spec.MediaMode(),
		}
		for _, r := range spec.Requires {
			info.Requires = append(info.Requires, string(r))
		}
		out = append(out, info)
	}
	return out
}

func cachedDeckResult(addr string, c *domain.Collection) *DeckResult {
	cards := make([]domain.Card, len(c.Cards))
	copy(cards, c.Cards)
	domain.SortCards(cards)

	snapshotAt := domain.FormatSnapshot(c.Timestamp)
	return &DeckResult{
		WrappedID:  c.WrappedID,
		Count:      len(cards),
		Short:      domain.ShortAddress(addr),
		Address:    addr,
		SnapshotAt: snapshotAt,
		Cards:      cards,
		Cached:     true,
	}
}

func failureInfos(failures []generation.Failure) []FailureInfo {
	if len(failures) == 0 {
		return nil
	}
	out := make([]FailureInfo, 0, len(failures))
	for _, f := range failures {
		reason := f.Reason
		if f.Err != nil {
			reason = f.Err.Error()
		}
		out = append(out, FailureInfo{Kind: f.Kind, Reason: reason})
	}
	return out
}
