package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/wallet-wrapped/internal/api/shared"
	"github.com/phrazzld/wallet-wrapped/internal/domain"
	"github.com/phrazzld/wallet-wrapped/internal/generation"
	"github.com/phrazzld/wallet-wrapped/internal/generators"
	"github.com/phrazzld/wallet-wrapped/internal/service"
	"github.com/phrazzld/wallet-wrapped/internal/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAddress      = "0xAbCdEf0123456789aBcDeF0123456789AbCdEf01"
	testAddressLower = "0xabcdef0123456789abcdef0123456789abcdef01"
)

func newTestRouter(t *testing.T, svc WrappedService, runner TaskSubmitter, tracker JobTracker) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewWrappedHandler(svc, runner, tracker, logger)

	r := chi.NewRouter()
	r.Get("/health", HealthCheck)
	r.Route("/api", h.Routes)
	return r
}

func doRequest(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) shared.ErrorResponse {
	t.Helper()
	var resp shared.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestGenerateDeck_Sync(t *testing.T) {
	svc := &MockWrappedService{
		GenerateDeckFn: func(_ context.Context, address string, force bool) (*service.DeckResult, error) {
			assert.Equal(t, testAddressLower, address)
			assert.True(t, force)
			return &service.DeckResult{
				WrappedID: address + ":2025-01-01T00:00:00.000Z",
				Address:   address,
				Count:     1,
				Short:     domain.ShortAddress(address),
				Cards:     []domain.Card{{Kind: "intro", Order: 1, LeadInText: "a", RevealText: "b"}},
			}, nil
		},
	}
	router := newTestRouter(t, svc, nil, nil)

	rec := doRequest(t, router, http.MethodPost, "/api/generate",
		fmt.Sprintf(`{"address":%q,"force":true}`, testAddress))

	require.Equal(t, http.StatusOK, rec.Code)
	var result service.DeckResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 1, result.Count)
	assert.Equal(t, "0xabcd…ef01", result.Short)
	assert.Equal(t, testAddressLower+":2025-01-01T00:00:00.000Z", result.WrappedID)
}

func TestGenerateDeck_InvalidAddress(t *testing.T) {
	svc := &MockWrappedService{}
	router := newTestRouter(t, svc, nil, nil)

	for _, addr := range []string{"", "0x123", "not-an-address", strings.Repeat("z", 42)} {
		t.Run(fmt.Sprintf("address %q", addr), func(t *testing.T) {
			rec := doRequest(t, router, http.MethodPost, "/api/generate", fmt.Sprintf(`{"address":%q}`, addr))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			resp := decodeError(t, rec)
			if addr == "" {
				assert.Equal(t, ErrKindInvalidRequest, resp.Error)
			} else {
				assert.Equal(t, ErrKindInvalidAddress, resp.Error)
			}
		})
	}
	assert.Zero(t, svc.CallCount(), "no generator should run for an invalid address")
}

func TestGenerateDeck_BadBody(t *testing.T) {
	router := newTestRouter(t, &MockWrappedService{}, nil, nil)

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"address":`},
		{"unknown field", fmt.Sprintf(`{"address":%q,"color":"blue"}`, testAddress)},
		{"trailing object", fmt.Sprintf(`{"address":%q}{}`, testAddress)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := doRequest(t, router, http.MethodPost, "/api/generate", tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, ErrKindInvalidRequest, decodeError(t, rec).Error)
		})
	}
}

func TestGenerateDeck_ServiceErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantKind   string
	}{
		{"no cards", fmt.Errorf("%w: 3 generators failed", service.ErrNoCardsGenerated), http.StatusUnprocessableEntity, ErrKindNoCards},
		{"upstream", fmt.Errorf("%w: 503", generation.ErrUpstream), http.StatusBadGateway, ErrKindUpstream},
		{"timeout", generation.ErrTimeout, http.StatusGatewayTimeout, ErrKindTimeout},
		{"unexpected", fmt.Errorf("disk on fire: password=hunter2"), http.StatusInternalServerError, ErrKindInternal},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &MockWrappedService{
				GenerateDeckFn: func(context.Context, string, bool) (*service.DeckResult, error) {
					return nil, tc.err
				},
			}
			rec := doRequest(t, newTestRouter(t, svc, nil, nil), http.MethodPost, "/api/generate",
				fmt.Sprintf(`{"address":%q}`, testAddress))

			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.Equal(t, tc.wantKind, decodeError(t, rec).Error)
			assert.NotContains(t, rec.Body.String(), "hunter2")
		})
	}
}

func TestGenerateDeck_Async(t *testing.T) {
	tracker := task.NewTracker(time.Minute, 0)
	submitter := &fakeSubmitter{tracker: tracker}
	svc := &MockWrappedService{}
	router := newTestRouter(t, svc, submitter, tracker)

	rec := doRequest(t, router, http.MethodPost, "/api/generate",
		fmt.Sprintf(`{"address":%q,"async":true}`, testAddress))

	require.Equal(t, http.StatusAccepted, rec.Code)
	var accepted JobAcceptedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &accepted))
	assert.Equal(t, string(task.TaskStatusPending), accepted.Status)
	require.Len(t, submitter.submitted, 1)
	assert.Equal(t, submitter.submitted[0].ID().String(), accepted.JobID)
	assert.Zero(t, svc.CallCount(), "async generation should not run inline")

	rec = doRequest(t, router, http.MethodGet, "/api/jobs/"+accepted.JobID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var job task.Job
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &job))
	assert.Equal(t, task.TaskStatusPending, job.Status)
	assert.Equal(t, task.TaskTypeDeckGeneration, job.Type)
}

func TestGenerateDeck_AsyncQueueFull(t *testing.T) {
	tracker := task.NewTracker(time.Minute, 0)
	submitter := &fakeSubmitter{tracker: tracker, err: task.ErrQueueFull}
	router := newTestRouter(t, &MockWrappedService{}, submitter, tracker)

	rec := doRequest(t, router, http.MethodPost, "/api/generate",
		fmt.Sprintf(`{"address":%q,"async":true}`, testAddress))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, ErrKindBusy, decodeError(t, rec).Error)
}

func TestGenerateDeck_AsyncWithoutRunnerRunsInline(t *testing.T) {
	svc := &MockWrappedService{}
	router := newTestRouter(t, svc, nil, nil)

	rec := doRequest(t, router, http.MethodPost, "/api/generate",
		fmt.Sprintf(`{"address":%q,"async":true}`, testAddress))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, svc.CallCount())
}

func TestGetJob(t *testing.T) {
	tracker := task.NewTracker(time.Minute, 0)
	router := newTestRouter(t, &MockWrappedService{}, &fakeSubmitter{tracker: tracker}, tracker)

	t.Run("invalid id", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/api/jobs/not-a-uuid", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown id", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/api/jobs/"+uuid.NewString(), "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, ErrKindNotFound, decodeError(t, rec).Error)
	})
}

func TestGenerateCustom(t *testing.T) {
	svc := &MockWrappedService{
		GenerateCustomFn: func(_ context.Context, address, name, dataPrompt, mediaPrompt string) (*service.CardResult, error) {
			assert.Equal(t, testAddressLower, address)
			assert.Equal(t, "gas-guzzler", name)
			assert.Equal(t, "How much gas did {address} burn?", dataPrompt)
			assert.Empty(t, mediaPrompt)
			return &service.CardResult{
				GeneratorID: name,
				Address:     address,
				Card:        &domain.Card{Kind: name, Order: generators.CustomOrder, LeadInText: "a", RevealText: "b"},
			}, nil
		},
	}
	router := newTestRouter(t, svc, nil, nil)

	rec := doRequest(t, router, http.MethodPost, "/api/generate/custom", fmt.Sprintf(
		`{"address":%q,"generatorName":"gas-guzzler","dataPrompt":"How much gas did {address} burn?"}`, testAddress))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Success     bool         `json:"success"`
		GeneratorID string       `json:"generatorId"`
		Card        *domain.Card `json:"card"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "gas-guzzler", resp.GeneratorID)
	require.NotNil(t, resp.Card)
	assert.Equal(t, generators.CustomOrder, resp.Card.Order)
}

func TestGenerateCustom_Validation(t *testing.T) {
	svc := &MockWrappedService{}
	router := newTestRouter(t, svc, nil, nil)

	tests := []struct {
		name string
		body string
	}{
		{"missing data prompt", fmt.Sprintf(`{"address":%q}`, testAddress)},
		{"name too long", fmt.Sprintf(`{"address":%q,"generatorName":%q,"dataPrompt":"x"}`, testAddress, strings.Repeat("n", 65))},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := doRequest(t, router, http.MethodPost, "/api/generate/custom", tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
	assert.Zero(t, svc.CallCount())
}

func TestTestGenerator(t *testing.T) {
	t.Run("unknown generator", func(t *testing.T) {
		svc := &MockWrappedService{
			GenerateCardFn: func(_ context.Context, _, id string) (*service.CardResult, error) {
				return nil, fmt.Errorf("%w: %s", generators.ErrGeneratorNotFound, id)
			},
		}
		rec := doRequest(t, newTestRouter(t, svc, nil, nil), http.MethodPost, "/api/test-generator",
			fmt.Sprintf(`{"address":%q,"generatorId":"nope"}`, testAddress))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, ErrKindUnknownGenerator, decodeError(t, rec).Error)
	})

	t.Run("no card produced", func(t *testing.T) {
		svc := &MockWrappedService{
			GenerateCardFn: func(context.Context, string, string) (*service.CardResult, error) {
				return nil, fmt.Errorf("%w: intro: empty leadInText", service.ErrNoCardProduced)
			},
		}
		rec := doRequest(t, newTestRouter(t, svc, nil, nil), http.MethodPost, "/api/test-generator",
			fmt.Sprintf(`{"address":%q,"generatorId":"intro"}`, testAddress))

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, ErrKindNoCard, decodeError(t, rec).Error)
	})

	t.Run("success", func(t *testing.T) {
		rec := doRequest(t, newTestRouter(t, &MockWrappedService{}, nil, nil), http.MethodPost, "/api/test-generator",
			fmt.Sprintf(`{"address":%q,"generatorId":"intro"}`, testAddress))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"success":true`)
		assert.Contains(t, rec.Body.String(), `"generatorId":"intro"`)
	})
}

func TestGetLatestDeck(t *testing.T) {
	deck := &domain.Deck{
		Address:    testAddressLower,
		SnapshotAt: "2025-03-01T12:00:00.000Z",
		Version:    domain.DeckVersion,
		Cards:      []domain.Card{{Kind: "intro", Order: 1, LeadInText: "a", RevealText: "b"}},
	}
	svc := &MockWrappedService{
		LatestDeckFn: func(_ context.Context, address string) (*domain.Deck, error) {
			if address == testAddressLower {
				return deck, nil
			}
			return nil, fmt.Errorf("%w: no deck for %s", service.ErrNotFound, address)
		},
	}
	router := newTestRouter(t, svc, nil, nil)

	rec := doRequest(t, router, http.MethodGet, "/api/wrapped/"+testAddress, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp DeckResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, testAddressLower+":2025-03-01T12:00:00.000Z", resp.WrappedID)
	assert.Equal(t, 1, resp.Count)

	rec = doRequest(t, router, http.MethodGet, "/api/wrapped/0x0000000000000000000000000000000000000001", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/api/wrapped/0xnope", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, ErrKindInvalidAddress, decodeError(t, rec).Error)
}

func TestGetCollection(t *testing.T) {
	ts := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := &MockWrappedService{
		CollectionFn: func(_ context.Context, address string) (*domain.Collection, error) {
			return &domain.Collection{
				Address: address,
				Cards: []domain.Card{
					{Kind: "intro", Order: 1, LeadInText: "a", RevealText: "b"},
					{Kind: "gas", Order: 2, LeadInText: "c", RevealText: "d"},
				},
				Timestamp: ts,
			}, nil
		},
	}

	rec := doRequest(t, newTestRouter(t, svc, nil, nil), http.MethodGet, "/api/collections/"+testAddress, "")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp CollectionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, testAddressLower, resp.Address)
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, "2025-03-01T12:00:00.000Z", resp.Timestamp)
}

func TestGetCollection_NotFound(t *testing.T) {
	rec := doRequest(t, newTestRouter(t, &MockWrappedService{}, nil, nil), http.MethodGet, "/api/collections/"+testAddress, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListGeneratorsAndHealth(t *testing.T) {
	svc := &MockWrappedService{
		GeneratorsFn: func() []service.GeneratorInfo {
			return []service.GeneratorInfo{{ID: "intro", Version: 1, Order: 1, DataMode: "prompt", MediaMode: "none"}}
		},
	}
	router := newTestRouter(t, svc, nil, nil)

	rec := doRequest(t, router, http.MethodGet, "/api/generators", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp GeneratorsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Generators, 1)
	assert.Equal(t, "intro", resp.Generators[0].ID)

	rec = doRequest(t, router, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestNewWrappedHandler_PanicsOnMissingDeps(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	assert.Panics(t, func() { NewWrappedHandler(nil, nil, nil, logger) })
	assert.Panics(t, func() { NewWrappedHandler(&MockWrappedService{}, nil, nil, nil) })
}
