package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes
const (
	CodeNotFound      = "NOT_FOUND"
	CodeRateLimited   = "RATE_LIMITED"
	CodeUnavailable   = "UNAVAILABLE"
	CodeTransport     = "TRANSPORT"
	CodeParseFailure  = "PARSE_FAILURE"
	CodeConfiguration = "CONFIGURATION"
	CodeValidation    = "VALIDATION_ERROR"
	CodeBadRequest    = "BAD_REQUEST"
	CodeQueueFull     = "QUEUE_FULL"
	CodeInternal      = "INTERNAL_ERROR"
)

// AppError carries an error code, a human-readable message, and the HTTP
// status the API layer should answer with.
type AppError struct {
	Code    string
	Message string
	Status  int
	Err     error // wrapped underlying error (optional)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewNotFoundError creates a NOT_FOUND error for a missing or private resource.
func NewNotFoundError(resource string, id any) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s not found: %v", resource, id),
		Status:  http.StatusNotFound,
	}
}

// NewRateLimitedError creates a RATE_LIMITED error after retry exhaustion.
func NewRateLimitedError(attempts int) *AppError {
	return &AppError{
		Code:    CodeRateLimited,
		Message: fmt.Sprintf("rate limited by remote service after %d attempts", attempts),
		Status:  http.StatusTooManyRequests,
	}
}

// NewUnavailableError marks a recoverable gap: the remote service has no data
// for the request yet. Callers substitute a neutral placeholder.
func NewUnavailableError(what string) *AppError {
	return &AppError{
		Code:    CodeUnavailable,
		Message: fmt.Sprintf("%s not available", what),
		Status:  http.StatusNotFound,
	}
}

// NewTransportError creates a TRANSPORT error for network failures that
// survived the retry budget.
func NewTransportError(err error) *AppError {
	return &AppError{
		Code:    CodeTransport,
		Message: "remote service unreachable",
		Status:  http.StatusBadGateway,
		Err:     err,
	}
}

// NewParseFailureError creates a PARSE_FAILURE error for move or PGN text
// that could not be interpreted.
func NewParseFailureError(what string, err error) *AppError {
	return &AppError{
		Code:    CodeParseFailure,
		Message: fmt.Sprintf("failed to parse %s", what),
		Status:  http.StatusUnprocessableEntity,
		Err:     err,
	}
}

// NewConfigurationError creates a CONFIGURATION error for a missing required
// credential or setting.
func NewConfigurationError(setting string) *AppError {
	return &AppError{
		Code:    CodeConfiguration,
		Message: fmt.Sprintf("missing required configuration: %s", setting),
		Status:  http.StatusInternalServerError,
	}
}

// NewValidationError creates a VALIDATION_ERROR for a bad input field.
func NewValidationError(field, reason string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: fmt.Sprintf("validation failed for %s: %s", field, reason),
		Status:  http.StatusBadRequest,
	}
}

// NewBadRequestError creates a BAD_REQUEST error with a caller-facing message.
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    CodeBadRequest,
		Message: message,
		Status:  http.StatusBadRequest,
	}
}

// NewQueueFullError signals that the analysis queue rejected a submission.
func NewQueueFullError() *AppError {
	return &AppError{
		Code:    CodeQueueFull,
		Message: "analysis queue is full, try again later",
		Status:  http.StatusServiceUnavailable,
	}
}

// NewInternalError wraps an unexpected error as INTERNAL_ERROR.
func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: "internal server error",
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

func hasCode(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// IsNotFound reports whether err is a NOT_FOUND AppError.
func IsNotFound(err error) bool { return hasCode(err, CodeNotFound) }

// IsRateLimited reports whether err is a RATE_LIMITED AppError.
func IsRateLimited(err error) bool { return hasCode(err, CodeRateLimited) }

// IsUnavailable reports whether err is an UNAVAILABLE AppError.
func IsUnavailable(err error) bool { return hasCode(err, CodeUnavailable) }

// IsParseFailure reports whether err is a PARSE_FAILURE AppError.
func IsParseFailure(err error) bool { return hasCode(err, CodeParseFailure) }
