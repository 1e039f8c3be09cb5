package services

import "errors"

// Shared error taxonomy. Controllers translate these into HTTP statuses:
// ErrNotFound -> 404, ErrForbidden -> 403, ErrRequestAlreadyHandled -> 409,
// ErrPrecondition -> 400, anything else -> 500.
var (
	ErrNotFound              = errors.New("not found")
	ErrForbidden             = errors.New("forbidden")
	ErrPrecondition          = errors.New("precondition failed")
	ErrRequestAlreadyHandled = errors.New("request already handled")
	ErrInvalidCredentials    = errors.New("invalid email or password")
)
