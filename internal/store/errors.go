package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the store.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would overwrite an entity that
	// must never be replaced.
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when an entity fails validation before
	// being stored. Check the wrapped error for specific validation details.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrCacheMiss is returned by a Cache when a key is absent or expired.
	ErrCacheMiss = fmt.Errorf("%w: cache key", ErrNotFound)

	// ErrObjectNotFound is returned by an ObjectStore when a key does not exist.
	ErrObjectNotFound = fmt.Errorf("%w: object", ErrNotFound)

	// ErrObjectExists is returned by an ObjectStore when Put targets an
	// existing key.
	ErrObjectExists = fmt.Errorf("%w: object", ErrDuplicate)

	// ErrSnapshotExists is returned when a deck snapshot is saved twice.
	ErrSnapshotExists = fmt.Errorf("%w: deck snapshot", ErrDuplicate)
)

// IsNotFoundError reports whether err is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError reports whether err is any kind of "duplicate" error.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

// StoreError is a store error with the entity and operation that failed.
type StoreError struct {
	Entity    string // The entity type (e.g., "collection", "deck")
	Operation string // The operation that failed (e.g., "get", "save")
	Message   string // Error message
	Err       error  // Original error
}

// Error implements the error interface for StoreError.
func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf(
			"%s operation on %s failed: %s: %v",
			e.Operation,
			e.Entity,
			e.Message,
			e.Err,
		)
	}
	return fmt.Sprintf("%s operation on %s failed: %s", e.Operation, e.Entity, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError with the given entity, operation, message, and wrapped error.
func NewStoreError(entity, operation, message string, err error) *StoreError {
	return &StoreError{
		Entity:    entity,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
