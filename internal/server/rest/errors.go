package rest

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/pulsecheck/internal/common"
	"github.com/gin-gonic/gin"
)

// Stable error codes carried in the "code" field of error responses.
const (
	CodeValidation         = "validation_error"
	CodeUnauthorized       = "unauthorized"
	CodeTokenExpired       = "token_expired"
	CodeInvalidCredentials = "invalid_credentials"
	CodeNotFound           = "not_found"
	CodeAlreadyExists      = "already_exists"
	CodeQuotaExceeded      = "quota_exceeded"
	CodeConsistency        = "consistency_error"
	CodePartialFailure     = "partial_failure"
	CodeInternal           = "internal_error"
	CodeMethodNotAllowed   = "method_not_allowed"
	CodeRateLimited        = "rate_limited"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// statusFor maps a service error to an HTTP status and code. notFound is the
// status used for common.ErrorNotFound, which some operations report as 400.
func statusFor(err error, notFound int) (int, string) {
	switch {
	case errors.Is(err, common.ErrPartialFailure):
		return http.StatusInternalServerError, CodePartialFailure
	case errors.Is(err, common.ErrConsistency):
		return http.StatusInternalServerError, CodeConsistency
	case errors.Is(err, common.ErrorValidation):
		return http.StatusBadRequest, CodeValidation
	case errors.Is(err, common.ErrorUnauthorized):
		return http.StatusForbidden, CodeUnauthorized
	case errors.Is(err, common.ErrTokenExpired):
		return http.StatusBadRequest, CodeTokenExpired
	case errors.Is(err, common.ErrInvalidCredentials):
		return http.StatusBadRequest, CodeInvalidCredentials
	case errors.Is(err, common.ErrorNotFound):
		return notFound, CodeNotFound
	case errors.Is(err, common.ErrorAlreadyExists):
		return http.StatusBadRequest, CodeAlreadyExists
	case errors.Is(err, common.ErrQuotaExceeded):
		return http.StatusBadRequest, CodeQuotaExceeded
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}

func writeError(c *gin.Context, err error, notFound int) {
	status, code := statusFor(err, notFound)
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, ErrorResponse{Error: err.Error(), Code: code})
}

func abortWith(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Error: msg, Code: code})
}
