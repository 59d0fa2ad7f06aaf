package service

import (
	"errors"
	"strings"
)

// Signup/verification flow errors used by handlers for stable error_type mapping.
var (
	ErrDuplicateEmail        = errors.New("duplicate_email")
	ErrInvalidOrExpiredToken = errors.New("invalid_or_expired_token")
	ErrAccountNotFound       = errors.New("account_not_found")
	ErrAlreadyVerified       = errors.New("already_verified")
)

// ValidationError carries every violated signup rule at once, so the
// caller can fix all of them in a single round trip.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Violations, "; ")
}

// AsValidationError returns the *ValidationError inside err, if any.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
