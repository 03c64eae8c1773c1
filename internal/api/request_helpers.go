package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/wallet-wrapped/internal/api/shared"
	"github.com/phrazzld/wallet-wrapped/internal/domain"
)

// handleAPIError maps err to a status code and safe error kind, logs the
// redacted details and writes the response.
func handleAPIError(w http.ResponseWriter, r *http.Request, err error) {
	shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
}

// decodeAndValidate decodes the JSON body into v and validates it. On
// failure it writes a 400 response and returns false.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v interface{}, log *slog.Logger) bool {
	if err := shared.DecodeJSON(w, r, v); err != nil {
		log.Debug("invalid request body", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, ErrKindInvalidRequest)
		return false
	}
	if err := shared.ValidateRequest(v); err != nil {
		log.Debug("request validation failed", slog.String("detail", SanitizeValidationError(err)))
		shared.RespondWithError(w, r, http.StatusBadRequest, ErrKindInvalidRequest)
		return false
	}
	return true
}

// requireAddress normalizes address. On failure it writes a 400
// invalid_address response and returns false.
func requireAddress(w http.ResponseWriter, r *http.Request, address string) (string, bool) {
	addr, err := domain.NormalizeAddress(address)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, ErrKindInvalidAddress)
		return "", false
	}
	return addr, true
}

// getPathAddress reads and normalizes the {address} path parameter.
func getPathAddress(w http.ResponseWriter, r *http.Request) (string, bool) {
	return requireAddress(w, r, chi.URLParam(r, "address"))
}

// getPathUUID extracts and parses a UUID path parameter.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	raw := chi.URLParam(r, paramName)
	if raw == "" {
		return uuid.Nil, fmt.Errorf("missing %s in path", paramName)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s format: %w", paramName, err)
	}
	return id, nil
}
