package service

import (
	"errors"
	"fmt"
)

// Service errors. The API layer maps these to status codes.
var (
	// ErrNoCardsGenerated is returned when every generator of a run failed
	// or produced no card.
	ErrNoCardsGenerated = errors.New("no cards generated")

	// ErrNoCardProduced is returned when a single generator ran cleanly but
	// its data was incomplete.
	ErrNoCardProduced = errors.New("generator produced no card")

	// ErrNotFound is returned when no collection or deck exists for an
	// address.
	ErrNotFound = errors.New("not found")
)

// ServiceError wraps unexpected failures with the operation that hit them.
type ServiceError struct {
	// Operation is the operation that failed (e.g. "generate_deck").
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("wrapped service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("wrapped service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a ServiceError. Service sentinels are returned
// unwrapped.
func NewServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}
	for _, sentinel := range []error{ErrNoCardsGenerated, ErrNoCardProduced, ErrNotFound} {
		if errors.Is(err, sentinel) {
			return err
		}
	}
	return &ServiceError{Operation: operation, Message: message, Err: err}
}
