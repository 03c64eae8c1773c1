package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/wallet-wrapped/internal/domain"
	"github.com/phrazzld/wallet-wrapped/internal/generation"
	"github.com/phrazzld/wallet-wrapped/internal/generators"
	"github.com/phrazzld/wallet-wrapped/internal/service"
	"github.com/phrazzld/wallet-wrapped/internal/task"
	"github.com/stretchr/testify/assert"
)

func TestMapErrorToStatusCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
		kind     string
	}{
		{"invalid address", fmt.Errorf("%w: %q", domain.ErrInvalidAddress, "0x1"), http.StatusBadRequest, ErrKindInvalidAddress},
		{"unknown generator", generators.ErrGeneratorNotFound, http.StatusBadRequest, ErrKindUnknownGenerator},
		{"missing data source", &generation.BuildError{Kind: "x", Phase: generation.PhaseData, Err: generation.ErrMissingDataSource}, http.StatusBadRequest, ErrKindInvalidGenerator},
		{"not found", service.ErrNotFound, http.StatusNotFound, ErrKindNotFound},
		{"job not found", task.ErrTaskNotFound, http.StatusNotFound, ErrKindNotFound},
		{"no cards", service.ErrNoCardsGenerated, http.StatusUnprocessableEntity, ErrKindNoCards},
		{"no card", service.ErrNoCardProduced, http.StatusUnprocessableEntity, ErrKindNoCard},
		{"timeout", generation.ErrTimeout, http.StatusGatewayTimeout, ErrKindTimeout},
		{"upstream", service.NewServiceError("generate_card", "card build failed", generation.ErrUpstream), http.StatusBadGateway, ErrKindUpstream},
		{"schema", generation.ErrSchemaValidation, http.StatusBadGateway, ErrKindUpstream},
		{"queue full", task.ErrQueueFull, http.StatusServiceUnavailable, ErrKindBusy},
		{"queue closed", task.ErrQueueClosed, http.StatusServiceUnavailable, ErrKindBusy},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, ErrKindInternal},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, MapErrorToStatusCode(tc.err))
			assert.Equal(t, tc.kind, GetSafeErrorMessage(tc.err))
		})
	}
}

func TestGetSafeErrorMessage_Nil(t *testing.T) {
	assert.Equal(t, ErrKindInternal, GetSafeErrorMessage(nil))
}

func TestSanitizeValidationError(t *testing.T) {
	v := validator.New()

	err := v.Struct(CustomRequest{Address: "0x1"})
	assert.Equal(t, "Invalid DataPrompt: required field", SanitizeValidationError(err))

	err = v.Struct(TestGeneratorRequest{Address: "0x1"})
	assert.Equal(t, "Invalid GeneratorID: required field", SanitizeValidationError(err))

	assert.Equal(t, "Validation error", SanitizeValidationError(errors.New("something else")))
}
