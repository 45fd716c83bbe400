// Package common defines shared constants and sentinel errors used across
// client and server layers of Noteleaf. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors. ErrorNotFound deliberately covers both
	// "does not exist" and "exists but belongs to another user".
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Registration / account errors.
	ErrorAlreadyExists = errors.New("already exists")

	// Validation errors raised outside the HTTP binding layer.
	ErrorValidation = errors.New("validation error")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Password-reset code lifecycle.
	ErrorInvalidOrExpiredCode = errors.New("invalid or expired reset code")

	// Upstream collaborator failures (OAuth provider, mail dispatch).
	ErrorUpstream = errors.New("upstream failure")
)
