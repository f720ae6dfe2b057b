package models

import "errors"

var (
	// ErrNotFound is returned when a requested resource is not found.
	ErrNotFound = errors.New("resource not found")

	// ErrConflict is returned when a resource already exists, e.g. a taken
	// email at signup or a reused order idempotency key.
	ErrConflict = errors.New("resource already exists")

	// ErrForbidden is returned when the authenticated user is not allowed to
	// act on the resource (e.g. a farmer touching another farmer's order).
	ErrForbidden = errors.New("not allowed to access this resource")

	// ErrValidation is returned for input that is malformed or out of range
	// in a way struct tags cannot express (bad land size, unsupported
	// vegetable). Wrapped with a human-readable detail message.
	ErrValidation = errors.New("invalid input")

	// ErrIllegalTransition is returned when a status change violates the
	// order lifecycle or the farmer verification workflow, e.g. accepting an
	// order that is no longer pending or advancing past 'delivered'.
	ErrIllegalTransition = errors.New("illegal status transition")

	// ErrConcurrentModification is returned when a conditional status update
	// finds the record changed between read and write. The caller should
	// re-read and retry.
	ErrConcurrentModification = errors.New("resource was modified concurrently")

	// ErrListingUnavailable is returned when an order would allocate more
	// land than the listing has available, or the listing is inactive.
	ErrListingUnavailable = errors.New("listing cannot satisfy the requested size")

	// ErrInvalidCredentials is returned on a failed login attempt.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrInvalidToken is returned for an expired or unknown reset token.
	ErrInvalidToken = errors.New("invalid or expired token")
)

// ErrorResponse is the JSON body returned for all error responses.
type ErrorResponse struct {
	Message string `json:"message"`
}
