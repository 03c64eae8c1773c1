package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/wallet-wrapped/internal/domain"
	"github.com/phrazzld/wallet-wrapped/internal/service"
)

// Common errors
var (
	ErrNilGenerator = errors.New("deck generator cannot be nil")
	ErrNilResults   = errors.New("result recorder cannot be nil")
	ErrNilLogger    = errors.New("logger cannot be nil")
)

// DeckGenerator generates a wrapped deck. *service.WrappedService
// implements it.
type DeckGenerator interface {
	GenerateDeck(ctx context.Context, address string, force bool) (*service.DeckResult, error)
}

// ResultRecorder stores a finished task's result. *Tracker implements it.
type ResultRecorder interface {
	SetResult(taskID uuid.UUID, result any)
}

// deckGenerationPayload represents the serialized data stored in the task
type deckGenerationPayload struct {
	Address string `json:"address"`
	Force   bool   `json:"force"`
}

// DeckGenerationTask generates a deck in the background.
type DeckGenerationTask struct {
	id        uuid.UUID
	address   string
	force     bool
	generator DeckGenerator
	results   ResultRecorder
	logger    *slog.Logger

	mu     sync.Mutex
	status TaskStatus
}

// NewDeckGenerationTask creates a task for address. The address is validated
// here so invalid requests never reach the queue.
func NewDeckGenerationTask(
	address string,
	force bool,
	generator DeckGenerator,
	results ResultRecorder,
	logger *slog.Logger,
) (*DeckGenerationTask, error) {
	if generator == nil {
		return nil, ErrNilGenerator
	}
	if results == nil {
		return nil, ErrNilResults
	}
	if logger == nil {
		return nil, ErrNilLogger
	}
	addr, err := domain.NormalizeAddress(address)
	if err != nil {
		return nil, err
	}

	id := uuid.New()
	return &DeckGenerationTask{
		id:        id,
		address:   addr,
		force:     force,
		generator: generator,
		results:   results,
		logger:    logger.With("task_type", TaskTypeDeckGeneration, "task_id", id, "address", addr),
		status:    TaskStatusPending,
	}, nil
}

// ID returns the task's unique identifier
func (t *DeckGenerationTask) ID() uuid.UUID {
	return t.id
}

// Type returns the task type identifier
func (t *DeckGenerationTask) Type() string {
	return TaskTypeDeckGeneration
}

// Payload returns the task data as a byte slice
func (t *DeckGenerationTask) Payload() []byte {
	data, err := json.Marshal(deckGenerationPayload{Address: t.address, Force: t.force})
	if err != nil {
		t.logger.Error("failed to marshal task payload", "error", err)
		return []byte{}
	}
	return data
}

// Status returns the current task status
func (t *DeckGenerationTask) Status() TaskStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

func (t *DeckGenerationTask) setStatus(s TaskStatus) {
	t.mu.Lock()
	t.status = s
	t.mu.Unlock()
}

// Execute generates the deck and records the result.
func (t *DeckGenerationTask) Execute(ctx context.Context) error {
	t.setStatus(TaskStatusGenerating)
	t.logger.InfoContext(ctx, "starting deck generation task", "force", t.force)

	if err := ctx.Err(); err != nil {
		t.setStatus(TaskStatusFailed)
		return fmt.Errorf("task cancelled by context: %w", err)
	}

	result, err := t.generator.GenerateDeck(ctx, t.address, t.force)
	if err != nil {
		t.setStatus(TaskStatusFailed)
		return fmt.Errorf("failed to generate deck: %w", err)
	}

	t.results.SetResult(t.id, result)
	t.setStatus(TaskStatusCompleted)
	t.logger.InfoContext(ctx, "deck generation task completed",
		"wrapped_id", result.WrappedID,
		"cards", result.Count,
		"cached", result.Cached)
	return nil
}
