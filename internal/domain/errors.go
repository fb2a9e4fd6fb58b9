package domain

import "errors"

// Failure classes shared across services and the HTTP boundary.
// Layers wrap these with fmt.Errorf("...: %w", err) so callers can
// branch with errors.Is without caring which layer failed.
var (
	// Malformed or empty assembly input. No partial state is persisted.
	ErrValidation = errors.New("validation failed")

	// A referenced attraction, plan or stage no longer exists.
	// Aborts the enclosing operation.
	ErrNotFound = errors.New("not found")

	// Geocode, route or map-image data could not be obtained. Never
	// fatal: every consumer has a documented fallback.
	ErrProviderUnavailable = errors.New("provider unavailable")

	// Mutation attempted by a non-owner. Rejected without side effects.
	ErrPermissionDenied = errors.New("permission denied")
)
