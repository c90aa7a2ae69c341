package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Error codes
const (
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeRateLimited  = "RATE_LIMITED"
	ErrCodeUpstream     = "UPSTREAM_UNAVAILABLE"
	ErrCodeConfig       = "CONFIG_ERROR"
)

// AppError represents an application error with HTTP status code and error code
type AppError struct {
	Code      string // e.g. "NOT_FOUND", "UPSTREAM_UNAVAILABLE"
	Message   string // shown to the user
	Status    int
	Retryable bool // the caller may retry the same action
	Err       error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for error wrapping support
func (e *AppError) Unwrap() error {
	return e.Err
}

// As extracts an *AppError from err's chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// NewNotFoundError creates a new NOT_FOUND error
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found: %v", resource, id),
		Status:  http.StatusNotFound,
	}
}

// NewValidationError creates a new VALIDATION_ERROR
func NewValidationError(field string, reason string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: fmt.Sprintf("validation failed for %s: %s", field, reason),
		Status:  http.StatusBadRequest,
	}
}

// NewInternalError creates a new INTERNAL_ERROR
func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: "internal server error",
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// NewBadRequestError creates a new BAD_REQUEST error
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeBadRequest,
		Message: message,
		Status:  http.StatusBadRequest,
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeUnauthorized,
		Message: message,
		Status:  http.StatusUnauthorized,
	}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeForbidden,
		Message: message,
		Status:  http.StatusForbidden,
	}
}

func NewRateLimitedError() *AppError {
	return &AppError{
		Code:      ErrCodeRateLimited,
		Message:   "too many attempts, wait a minute and try again",
		Status:    http.StatusTooManyRequests,
		Retryable: true,
	}
}

// NewUpstreamError reports a failed language model call. It is always retryable.
func NewUpstreamError(message string, err error) *AppError {
	return &AppError{
		Code:      ErrCodeUpstream,
		Message:   message,
		Status:    http.StatusServiceUnavailable,
		Retryable: true,
		Err:       err,
	}
}

// NewConfigError reports missing or invalid configuration.
func NewConfigError(key string, reason string) *AppError {
	return &AppError{
		Code:    ErrCodeConfig,
		Message: fmt.Sprintf("%s %s", key, reason),
		Status:  http.StatusInternalServerError,
	}
}
