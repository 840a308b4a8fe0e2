package client

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/pulsecheck/internal/common"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
)

// APIError is a non-2xx response decoded from the server's error body.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("server returned %d (%s): %s", e.Status, e.Code, e.Message)
}

// Is matches an APIError against the shared sentinels in common.
func (e *APIError) Is(target error) bool {
	switch e.Code {
	case "unauthorized":
		return target == ErrUnauthorized || target == common.ErrorUnauthorized
	case "not_found":
		return target == common.ErrorNotFound
	case "already_exists":
		return target == common.ErrorAlreadyExists
	case "validation_error":
		return target == common.ErrorValidation
	case "token_expired":
		return target == common.ErrTokenExpired
	case "invalid_credentials":
		return target == common.ErrInvalidCredentials
	case "quota_exceeded":
		return target == common.ErrQuotaExceeded
	case "consistency_error":
		return target == common.ErrConsistency
	case "partial_failure":
		return target == common.ErrPartialFailure
	}
	return false
}
