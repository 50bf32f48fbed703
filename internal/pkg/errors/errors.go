package errors

import "errors"

// Sentinel errors shared across services and handlers. Services wrap them
// with %w for context, handlers map them to HTTP status classes.
var (
	// ErrNotFound is used when a record or resource does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrUnauthorized is used for authentication failures
	// (wrong credentials, missing or invalid token).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden is used when the user may not act on the resource.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation is used for invalid or missing input.
	ErrValidation = errors.New("validation failed")

	// ErrExpiredToken is used when a token or one-time code has expired.
	ErrExpiredToken = errors.New("token is expired")

	// ErrConflict is used for state conflicts, such as a duplicate email
	// or liking the same post twice.
	ErrConflict = errors.New("resource state conflict")
)
