package generation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"time"

	"github.com/phrazzld/wallet-wrapped/internal/domain"
)

// DefaultCallTimeout bounds each AI call when no timeout is configured.
const DefaultCallTimeout = 60 * time.Second

// BuildResult is the successful outcome of a build. Card is nil when the
// generator produced nothing worth showing, in which case Reason says why.
type BuildResult struct {
	Card   *domain.Card
	Reason string
}

// Produced reports whether the build yielded a card.
func (r BuildResult) Produced() bool {
	return r.Card != nil
}

// Builder builds one card from one spec.
type Builder struct {
	caps        Capabilities
	logger      *slog.Logger
	callTimeout time.Duration
	metrics     *Metrics
}

// BuilderOption customizes a Builder.
type BuilderOption func(*Builder)

// WithCallTimeout bounds every AI call made by the builder.
func WithCallTimeout(d time.Duration) BuilderOption {
	return func(b *Builder) {
		if d > 0 {
			b.callTimeout = d
		}
	}
}

// WithMetrics records build metrics.
func WithMetrics(m *Metrics) BuilderOption {
	return func(b *Builder) {
		b.metrics = m
	}
}

// NewBuilder creates a Builder. caps must carry an AI client and a sanitizer;
// the other capabilities are only needed by generators that use them.
func NewBuilder(caps Capabilities, logger *slog.Logger, opts ...BuilderOption) (*Builder, error) {
	if caps.AI == nil {
		return nil, fmt.Errorf("%w: ai client cannot be nil", ErrInvalidConfig)
	}
	if caps.Sanitizer == nil {
		return nil, fmt.Errorf("%w: sanitizer cannot be nil", ErrInvalidConfig)
	}
	if logger == nil {
		return nil, fmt.Errorf("%w: logger cannot be nil", ErrInvalidConfig)
	}

	b := &Builder{
		caps:        caps,
		logger:      logger.With("component", "card_builder"),
		callTimeout: DefaultCallTimeout,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Build runs spec against vars.
//
// It returns a BuildResult with a card, a BuildResult without a card when the
// data phase produced incomplete card data, or a *BuildError for every other
// failure. Failures only concern this spec; callers building several specs
// should keep going.
func (b *Builder) Build(ctx context.Context, spec Spec, vars Vars) (BuildResult, error) {
	start := time.Now()
	log := b.logger.With("kind", spec.Kind, "data_mode", spec.DataMode(), "media_mode", spec.MediaMode())

	result, err := b.build(ctx, log, spec, vars)
	elapsed := time.Since(start)

	switch {
	case err != nil:
		b.metrics.observeBuild(spec.Kind, OutcomeError, elapsed)
		log.ErrorContext(ctx, "card build failed", "error", err, "duration_ms", elapsed.Milliseconds())
	case !result.Produced():
		b.metrics.observeBuild(spec.Kind, OutcomeNoCard, elapsed)
		log.WarnContext(ctx, "card build produced no card", "reason", result.Reason, "duration_ms", elapsed.Milliseconds())
	default:
		b.metrics.observeBuild(spec.Kind, OutcomeCard, elapsed)
		log.InfoContext(ctx, "card built",
			"has_media", result.Card.Media != nil,
			"duration_ms", elapsed.Milliseconds())
	}
	return result, err
}

func (b *Builder) build(ctx context.Context, log *slog.Logger, spec Spec, vars Vars) (BuildResult, error) {
	fail := func(phase Phase, err error) (BuildResult, error) {
		return BuildResult{}, &BuildError{Kind: spec.Kind, Phase: phase, Err: err}
	}

	if err := spec.Validate(); err != nil {
		return fail(PhaseConfig, err)
	}

	if spec.PrePrompt != nil {
		enriched, err := spec.PrePrompt(ctx, vars)
		if err != nil {
			return fail(PhasePrePrompt, err)
		}
		if !enriched.complete() {
			return fail(PhasePrePrompt, ErrMissingVars)
		}
		log.DebugContext(ctx, "vars enriched", "keys", slices.Sorted(maps.Keys(enriched.Extra())))
		vars = enriched
	}

	data, err := b.buildData(ctx, spec, vars)
	if err != nil {
		return fail(PhaseData, err)
	}
	if !data.Complete() {
		return BuildResult{Reason: domain.ErrIncompleteCardData.Error()}, nil
	}

	media, err := b.buildMedia(ctx, spec, vars, data)
	if err != nil {
		return fail(PhaseMedia, err)
	}

	card, err := domain.NewCard(spec.Kind, spec.Order, data, media)
	if err != nil {
		return fail(PhaseAssemble, err)
	}

	log.DebugContext(ctx, "card assembled", "highlights", len(card.Highlights))
	return BuildResult{Card: card}, nil
}

func (b *Builder) buildData(ctx context.Context, spec Spec, vars Vars) (domain.CardData, error) {
	switch src := spec.Data.(type) {
	case CustomData:
		return src.Process(ctx, vars)
	case PromptedData:
		prompt, err := Interpolate(src.Template, vars)
		if err != nil {
			return domain.CardData{}, err
		}
		var payload cardDataPayload
		err = b.call(ctx, PhaseData, StructuredRequest{
			System: DataSystemPrompt,
			Prompt: prompt,
			Schema: CardDataSchema,
			Vars:   vars,
			Tools:  spec.Tools,
		}, &payload)
		if err != nil {
			return domain.CardData{}, err
		}
		return payload.cardData(), nil
	default:
		return domain.CardData{}, ErrMissingDataSource
	}
}

func (b *Builder) buildMedia(ctx context.Context, spec Spec, vars Vars, data domain.CardData) (*domain.Media, error) {
	var media *domain.Media

	switch src := spec.Media.(type) {
	case nil:
		return nil, nil
	case CustomMedia:
		caps := b.caps
		caps.AI = boundedAI{builder: b, phase: PhaseMedia}
		m, err := src.Process(ctx, MediaInput{Vars: vars, Data: data, Caps: caps})
		if err != nil {
			return nil, err
		}
		media = m
	case PromptedMedia:
		raw, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode card data: %w", err)
		}
		prompt, err := Interpolate(src.Template, vars.With(VarCardData, string(raw)))
		if err != nil {
			return nil, err
		}
		return PromptMedia(ctx, boundedAI{builder: b, phase: PhaseMedia}, b.caps.Sanitizer, prompt, spec.Tools, vars)
	}

	if media != nil && media.Kind == domain.MediaKindSVG {
		media.SVG = b.caps.Sanitizer.Sanitize(media.SVG)
	}
	return media, nil
}

// call makes one bounded AI call.
func (b *Builder) call(ctx context.Context, phase Phase, req StructuredRequest, out any) error {
	req.Timeout = b.callTimeout
	callCtx, cancel := context.WithTimeout(ctx, b.callTimeout)
	defer cancel()

	err := b.caps.AI.CallStructuredJSON(callCtx, req, out)
	if err != nil && errors.Is(callCtx.Err(), context.DeadlineExceeded) && !errors.Is(err, ErrTimeout) {
		err = fmt.Errorf("%w after %s: %w", ErrTimeout, b.callTimeout, err)
	}
	b.metrics.observeAICall(phase, err)
	return err
}

// boundedAI routes processor AI calls through the builder so they get the
// same timeout and metrics as prompted calls.
type boundedAI struct {
	builder *Builder
	phase   Phase
}

func (a boundedAI) CallStructuredJSON(ctx context.Context, req StructuredRequest, out any) error {
	return a.builder.call(ctx, a.phase, req, out)
}
