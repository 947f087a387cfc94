// Package common defines shared sentinel errors used across the deposit
// service layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Validation errors (malformed or missing required fields).
	ErrValidation = errors.New("validation error")

	// Lifecycle errors: the requested status transition is not allowed
	// from the deposit's current status.
	ErrInvalidTransition = errors.New("invalid status transition")

	// Storage errors (transaction or connectivity failure).
	ErrStorage = errors.New("storage error")

	// Barcode uniqueness violation on clients.
	ErrBarcodeTaken = errors.New("barcode already assigned")
)
