package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/wallet-wrapped/internal/api/shared"
	"github.com/phrazzld/wallet-wrapped/internal/domain"
	"github.com/phrazzld/wallet-wrapped/internal/platform/logger"
	"github.com/phrazzld/wallet-wrapped/internal/service"
	"github.com/phrazzld/wallet-wrapped/internal/task"
)

// WrappedService is the application service behind the handlers.
// *service.WrappedService implements it.
type WrappedService interface {
	GenerateDeck(ctx context.Context, address string, force bool) (*service.DeckResult, error)
	GenerateCard(ctx context.Context, address, generatorID string) (*service.CardResult, error)
	GenerateCustom(ctx context.Context, address, name, dataPrompt, mediaPrompt string) (*service.CardResult, error)
	Collection(ctx context.Context, address string) (*domain.Collection, error)
	LatestDeck(ctx context.Context, address string) (*domain.Deck, error)
	Generators() []service.GeneratorInfo
}

// TaskSubmitter queues background tasks. *task.TaskRunner implements it.
type TaskSubmitter interface {
	Submit(ctx context.Context, t task.Task) error
}

// JobTracker exposes the state of background tasks. *task.Tracker
// implements it.
type JobTracker interface {
	task.ResultRecorder
	Get(id uuid.UUID) (task.Job, error)
}

// WrappedHandler serves the wrapped deck endpoints.
type WrappedHandler struct {
	svc     WrappedService
	runner  TaskSubmitter
	tracker JobTracker
	logger  *slog.Logger
}

// NewWrappedHandler creates a WrappedHandler. runner and tracker may be nil,
// in which case asynchronous generation runs synchronously and job lookups
// return 404.
func NewWrappedHandler(svc WrappedService, runner TaskSubmitter, tracker JobTracker, logger *slog.Logger) *WrappedHandler {
	if svc == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("wrapped service cannot be nil for WrappedHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for WrappedHandler")
	}
	if runner == nil || tracker == nil {
		runner, tracker = nil, nil
	}
	return &WrappedHandler{
		svc:     svc,
		runner:  runner,
		tracker: tracker,
		logger:  logger.With(slog.String("component", "wrapped_handler")),
	}
}

// Routes mounts the handler's endpoints on r.
func (h *WrappedHandler) Routes(r chi.Router) {
	r.Post("/generate", h.GenerateDeck)
	r.Post("/generate/custom", h.GenerateCustom)
	r.Post("/test-generator", h.TestGenerator)
	r.Get("/wrapped/{address}", h.GetLatestDeck)
	r.Get("/collections/{address}", h.GetCollection)
	r.Get("/jobs/{id}", h.GetJob)
	r.Get("/generators", h.ListGenerators)
}

// GenerateDeck handles POST /api/generate.
// With async set it queues the run and returns 202 with a job ID.
func (h *WrappedHandler) GenerateDeck(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req GenerateRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}
	addr, ok := requireAddress(w, r, req.Address)
	if !ok {
		return
	}

	if req.Async && h.runner != nil {
		t, err := task.NewDeckGenerationTask(addr, req.Force, h.svc, h.tracker, h.logger)
		if err != nil {
			handleAPIError(w, r, err)
			return
		}
		if err := h.runner.Submit(r.Context(), t); err != nil {
			handleAPIError(w, r, err)
			return
		}
		log.Info("deck generation queued", slog.String("address", addr), slog.String("job_id", t.ID().String()))
		shared.RespondWithJSON(w, r, http.StatusAccepted, JobAcceptedResponse{
			JobID:  t.ID().String(),
			Status: string(task.TaskStatusPending),
		})
		return
	}

	result, err := h.svc.GenerateDeck(r.Context(), addr, req.Force)
	if err != nil {
		handleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, result)
}

// GenerateCustom handles POST /api/generate/custom.
func (h *WrappedHandler) GenerateCustom(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CustomRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}
	addr, ok := requireAddress(w, r, req.Address)
	if !ok {
		return
	}

	result, err := h.svc.GenerateCustom(r.Context(), addr, req.GeneratorName, req.DataPrompt, req.MediaPrompt)
	if err != nil {
		handleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, CardResponse{Success: true, CardResult: result})
}

// TestGenerator handles POST /api/test-generator. It runs one registered
// generator and upserts its card.
func (h *WrappedHandler) TestGenerator(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req TestGeneratorRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}
	addr, ok := requireAddress(w, r, req.Address)
	if !ok {
		return
	}

	result, err := h.svc.GenerateCard(r.Context(), addr, req.GeneratorID)
	if err != nil {
		handleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, CardResponse{Success: true, CardResult: result})
}

// GetLatestDeck handles GET /api/wrapped/{address}.
func (h *WrappedHandler) GetLatestDeck(w http.ResponseWriter, r *http.Request) {
	addr, ok := getPathAddress(w, r)
	if !ok {
		return
	}
	deck, err := h.svc.LatestDeck(r.Context(), addr)
	if err != nil {
		handleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, deckToResponse(deck))
}

// GetCollection handles GET /api/collections/{address}.
func (h *WrappedHandler) GetCollection(w http.ResponseWriter, r *http.Request) {
	addr, ok := getPathAddress(w, r)
	if !ok {
		return
	}
	c, err := h.svc.Collection(r.Context(), addr)
	if err != nil {
		handleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, collectionToResponse(c))
}

// GetJob handles GET /api/jobs/{id}.
func (h *WrappedHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, err := getPathUUID(r, "id")
	if err != nil {
		log.Debug("invalid job id", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, ErrKindInvalidRequest)
		return
	}
	if h.tracker == nil {
		shared.RespondWithError(w, r, http.StatusNotFound, ErrKindNotFound)
		return
	}
	job, err := h.tracker.Get(id)
	if err != nil {
		handleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, job)
}

// ListGenerators handles GET /api/generators.
func (h *WrappedHandler) ListGenerators(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, GeneratorsResponse{Generators: h.svc.Generators()})
}

// HealthCheck handles GET /health.
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
