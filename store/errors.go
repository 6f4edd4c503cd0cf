package store

import "errors"

// Error Handling Guidelines:
// - Stores: return these sentinels wrapped with fmt.Errorf("context: %w", err)
// - Services: translate them into apperrors.* values
// - Handlers: never inspect them directly

var (
	// ErrNotFound indicates that a requested record does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrConflict indicates a unique constraint violation.
	ErrConflict = errors.New("conflict")

	// ErrInvalidReference indicates a foreign key that points at nothing.
	ErrInvalidReference = errors.New("invalid reference")
)
