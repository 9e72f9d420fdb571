package store

import "errors"

// Sentinel errors surfaced to callers. Anything else returned from this
// package wraps a driver or query failure.
var (
	// ErrNotFound is returned when a request lookup matches zero rows.
	ErrNotFound = errors.New("material request not found")

	// ErrUnauthenticated is returned when a create is attempted without a
	// caller identity.
	ErrUnauthenticated = errors.New("not authenticated")
)
