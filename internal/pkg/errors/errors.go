package errors

import "errors"

// Common application errors shared across layers.
var (
	// ErrNotFound is returned when a record or resource does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrUnauthorized is returned for authentication failures (bad token, bad credentials).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden is returned when the caller lacks permission for the action.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation is returned for invalid input data.
	ErrValidation = errors.New("validation failed")

	// ErrExpiredToken is returned when a token is past its expiry.
	ErrExpiredToken = errors.New("token is expired")

	// ErrConflict is returned for state conflicts (e.g. unique constraint violations).
	ErrConflict = errors.New("resource state conflict")
)
