package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/phrazzld/wallet-wrapped/internal/domain"
	"github.com/phrazzld/wallet-wrapped/internal/generation"
	"github.com/phrazzld/wallet-wrapped/internal/generators"
	"github.com/phrazzld/wallet-wrapped/internal/service"
	"github.com/phrazzld/wallet-wrapped/internal/store"
	"github.com/phrazzld/wallet-wrapped/internal/task"
)

// Error kinds returned in the "error" field of error responses.
const (
	ErrKindInvalidAddress   = "invalid_address"
	ErrKindInvalidRequest   = "invalid_request"
	ErrKindUnknownGenerator = "unknown_generator"
	ErrKindInvalidGenerator = "invalid_generator"
	ErrKindNotFound         = "not_found"
	ErrKindNoCards          = "no_cards_generated"
	ErrKindNoCard           = "no_card_produced"
	ErrKindTimeout          = "generation_timed_out"
	ErrKindUpstream         = "upstream_error"
	ErrKindBusy             = "queue_full"
	ErrKindInternal         = "internal_error"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidAddress),
		errors.Is(err, generators.ErrGeneratorNotFound),
		errors.Is(err, generation.ErrMissingDataSource),
		errors.Is(err, generation.ErrInvalidSpec),
		errors.Is(err, generation.ErrUnresolvedPlaceholder),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	case errors.Is(err, service.ErrNotFound),
		errors.Is(err, task.ErrTaskNotFound):
		return http.StatusNotFound

	case errors.Is(err, service.ErrNoCardsGenerated),
		errors.Is(err, service.ErrNoCardProduced):
		return http.StatusUnprocessableEntity

	case errors.Is(err, generation.ErrTimeout):
		return http.StatusGatewayTimeout

	case errors.Is(err, generation.ErrUpstream),
		errors.Is(err, generation.ErrTransientFailure),
		errors.Is(err, generation.ErrContentBlocked),
		errors.Is(err, generation.ErrSchemaValidation),
		errors.Is(err, generation.ErrInvalidResponse):
		return http.StatusBadGateway

	case errors.Is(err, task.ErrQueueFull),
		errors.Is(err, task.ErrQueueClosed):
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns the error kind reported to clients. It never
// includes the error text.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return ErrKindInternal
	}

	switch {
	case errors.Is(err, domain.ErrInvalidAddress):
		return ErrKindInvalidAddress
	case errors.Is(err, generators.ErrGeneratorNotFound):
		return ErrKindUnknownGenerator
	case errors.Is(err, generation.ErrMissingDataSource),
		errors.Is(err, generation.ErrInvalidSpec),
		errors.Is(err, generation.ErrUnresolvedPlaceholder):
		return ErrKindInvalidGenerator
	case errors.Is(err, store.ErrInvalidEntity):
		return ErrKindInvalidRequest
	case errors.Is(err, service.ErrNotFound),
		errors.Is(err, task.ErrTaskNotFound):
		return ErrKindNotFound
	case errors.Is(err, service.ErrNoCardsGenerated):
		return ErrKindNoCards
	case errors.Is(err, service.ErrNoCardProduced):
		return ErrKindNoCard
	case errors.Is(err, generation.ErrTimeout):
		return ErrKindTimeout
	case errors.Is(err, generation.ErrUpstream),
		errors.Is(err, generation.ErrTransientFailure),
		errors.Is(err, generation.ErrContentBlocked),
		errors.Is(err, generation.ErrSchemaValidation),
		errors.Is(err, generation.ErrInvalidResponse):
		return ErrKindUpstream
	case errors.Is(err, task.ErrQueueFull),
		errors.Is(err, task.ErrQueueClosed):
		return ErrKindBusy
	default:
		return ErrKindInternal
	}
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	if strings.Contains(errMsg, "Field validation") {
		// Example format: "Key: 'CustomRequest.DataPrompt' Error:Field validation for 'DataPrompt' failed on the 'required' tag"
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}
				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
