package generation

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"

	"github.com/phrazzld/wallet-wrapped/internal/domain"
	"golang.org/x/sync/errgroup"
)

// CardBuilder builds a single card. *Builder implements it.
type CardBuilder interface {
	Build(ctx context.Context, spec Spec, vars Vars) (BuildResult, error)
}

// Failure records why one generator in a batch did not yield a card. Err is
// nil when the generator ran cleanly but produced no card.
type Failure struct {
	Kind   string
	Err    error
	Reason string
}

// BatchResult is the outcome of building a set of specs.
type BatchResult struct {
	// Cards holds the produced cards sorted by order ascending.
	Cards []domain.Card
	// Failures holds one entry per generator that produced no card.
	Failures []Failure
}

// Empty reports whether no generator produced a card.
func (r BatchResult) Empty() bool {
	return len(r.Cards) == 0
}

// Orchestrator builds many specs concurrently.
type Orchestrator struct {
	builder        CardBuilder
	logger         *slog.Logger
	maxConcurrency int
}

// NewOrchestrator creates an Orchestrator. maxConcurrency limits how many
// builds run at once; zero or less means no limit.
func NewOrchestrator(builder CardBuilder, logger *slog.Logger, maxConcurrency int) (*Orchestrator, error) {
	if builder == nil {
		return nil, fmt.Errorf("%w: builder cannot be nil", ErrInvalidConfig)
	}
	if logger == nil {
		return nil, fmt.Errorf("%w: logger cannot be nil", ErrInvalidConfig)
	}
	return &Orchestrator{
		builder:        builder,
		logger:         logger.With("component", "batch_orchestrator"),
		maxConcurrency: maxConcurrency,
	}, nil
}

// BuildAll runs every spec for the same vars and waits for all of them to
// settle. An error or panic in one build never affects the others; the
// generator is reported in Failures and is absent from Cards.
func (o *Orchestrator) BuildAll(ctx context.Context, vars Vars, specs []Spec) BatchResult {
	var (
		mu     sync.Mutex
		result BatchResult
	)
	record := func(card *domain.Card, failure *Failure) {
		mu.Lock()
		defer mu.Unlock()
		if card != nil {
			result.Cards = append(result.Cards, *card)
			return
		}
		result.Failures = append(result.Failures, *failure)
	}

	var g errgroup.Group
	if o.maxConcurrency > 0 {
		g.SetLimit(o.maxConcurrency)
	}

	for _, spec := range specs {
		g.Go(func() error {
			res, err := o.buildIsolated(ctx, spec, vars)
			switch {
			case err != nil:
				record(nil, &Failure{Kind: spec.Kind, Err: err})
			case !res.Produced():
				record(nil, &Failure{Kind: spec.Kind, Reason: res.Reason})
			default:
				record(res.Card, nil)
			}
			return nil
		})
	}
	_ = g.Wait()

	domain.SortCards(result.Cards)

	o.logger.InfoContext(ctx, "batch settled",
		"address", vars.Address,
		"generators", len(specs),
		"cards", len(result.Cards),
		"failures", len(result.Failures))
	return result
}

func (o *Orchestrator) buildIsolated(ctx context.Context, spec Spec, vars Vars) (res BuildResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			o.logger.ErrorContext(ctx, "card build panicked",
				"kind", spec.Kind,
				"panic", fmt.Sprint(r),
				"stack", string(debug.Stack()))
			res = BuildResult{}
			err = &BuildError{Kind: spec.Kind, Phase: PhaseUnknown, Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	return o.builder.Build(ctx, spec, vars)
}
