// Package common defines shared constants and sentinel errors used across
// client and server layers of pulsecheck. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Store-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorValidation   = errors.New("validation error")

	// Auth errors.
	ErrInvalidToken       = errors.New("missing required token in header, or token is invalid")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Token lifecycle errors.
	ErrTokenExpired = errors.New("token expired")

	// Check-specific errors.
	ErrQuotaExceeded = errors.New("quota exceeded")

	// Referential-integrity errors between users and their checks.
	ErrConsistency    = errors.New("consistency error")
	ErrPartialFailure = errors.New("partial failure")
)
