package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidAddress is returned when a wallet address is not 0x followed
	// by 40 hexadecimal characters.
	ErrInvalidAddress = errors.New("invalid_address")

	// ErrIncompleteCardData is returned when card data lacks a non-empty
	// lead-in or reveal line.
	ErrIncompleteCardData = errors.New("card data is missing lead-in or reveal text")

	// ErrInvalidMedia is returned when a media value violates its kind's shape.
	ErrInvalidMedia = errors.New("invalid media")

	// ErrEmptyKind is returned when a card or generator has no kind.
	ErrEmptyKind = errors.New("kind cannot be empty")
)
