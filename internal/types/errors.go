package types

import "errors"

// Error taxonomy shared across storage, services, and the HTTP layer.
// Callers classify failures with errors.Is so the API can map them to
// status codes and the sweeps can decide what is retryable.
var (
	// ErrValidation marks malformed or out-of-range input. Rejected
	// before the evaluator runs; never retried.
	ErrValidation = errors.New("validation failed")

	// ErrUnauthorized marks a mutation attempted against an entity
	// the caller does not own. No partial state change occurs.
	ErrUnauthorized = errors.New("not authorized")

	// ErrNotFound marks an unknown entity id.
	ErrNotFound = errors.New("not found")

	// ErrConsistency marks an aggregate update that raced or found
	// the underlying entity gone mid-transaction. Safe to retry.
	ErrConsistency = errors.New("consistency conflict")
)
