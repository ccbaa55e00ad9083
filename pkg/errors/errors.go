// Package errors provides structured error handling for the application.
// Service and repository code returns *AppError values; translation to HTTP
// status codes happens once, at the transport boundary.
package errors

import (
	"fmt"
	"net/http"
	"time"
)

// ErrorCode classifies an application error.
type ErrorCode string

const (
	// Client errors
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeUnauthenticated  ErrorCode = "UNAUTHENTICATED"
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeConflict         ErrorCode = "CONFLICT"

	// Domain-specific conditions
	CodeNoIngredients   ErrorCode = "NO_INGREDIENTS_AVAILABLE"
	CodeGenerationParse ErrorCode = "GENERATION_PARSE_ERROR"

	// Server/upstream errors
	CodeUpstreamFailure ErrorCode = "UPSTREAM_FAILURE"
	CodeDatabaseError   ErrorCode = "DATABASE_ERROR"
	CodeInternal        ErrorCode = "INTERNAL_ERROR"
)

// AppError carries a classified error with an operator-facing detail string
// and an optional cause chain.
type AppError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Details string                 `json:"details,omitempty"`
	Meta    map[string]interface{} `json:"meta,omitempty"`
	Cause   error                  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// StatusCode maps the error code to an HTTP status. Conflict gets its own
// status so callers can re-read state; upstream failures are distinguished
// from our own faults.
func (e *AppError) StatusCode() int {
	switch e.Code {
	case CodeValidationFailed, CodeNoIngredients:
		return http.StatusBadRequest
	case CodeUnauthenticated:
		return http.StatusUnauthorized
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeUpstreamFailure, CodeGenerationParse:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// WithMeta attaches a metadata key/value to the error.
func (e *AppError) WithMeta(key string, value interface{}) *AppError {
	if e.Meta == nil {
		e.Meta = make(map[string]interface{})
	}
	e.Meta[key] = value
	return e
}

// WithCause attaches a cause error.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// New creates an AppError with an explicit code.
func New(code ErrorCode, message, details string) *AppError {
	return &AppError{Code: code, Message: message, Details: details}
}

// NewValidationError creates a bad-input error.
func NewValidationError(details string) *AppError {
	return New(CodeValidationFailed, "Validation failed", details)
}

// NewUnauthenticatedError creates an authentication error.
func NewUnauthenticatedError(message string) *AppError {
	if message == "" {
		message = "Authentication required"
	}
	return New(CodeUnauthenticated, message, "")
}

// NewNotFoundError creates a not-found error for a named resource.
func NewNotFoundError(resource string) *AppError {
	message := "Resource not found"
	if resource != "" {
		message = resource + " not found"
	}
	return New(CodeNotFound, message, "")
}

// NewConflictError creates a conflict error.
func NewConflictError(message string) *AppError {
	return New(CodeConflict, message, "")
}

// NewNoIngredientsError reports an empty eligible-ingredient set.
func NewNoIngredientsError() *AppError {
	return New(CodeNoIngredients, "No ingredients available",
		"no unexpired ingredients registered for this user")
}

// NewGenerationParseError reports malformed generation output.
func NewGenerationParseError(details string, cause error) *AppError {
	return New(CodeGenerationParse, "Malformed generation output", details).WithCause(cause)
}

// NewUpstreamError reports a failed call to an external provider.
func NewUpstreamError(service string, cause error) *AppError {
	return New(
		CodeUpstreamFailure,
		"External service error",
		fmt.Sprintf("failed to communicate with %s", service),
	).WithMeta("service", service).WithCause(cause)
}

// NewDatabaseError reports a failed storage operation.
func NewDatabaseError(operation string, cause error) *AppError {
	return New(
		CodeDatabaseError,
		"Database operation failed",
		fmt.Sprintf("failed to %s", operation),
	).WithCause(cause)
}

// NewInternalError creates an internal error.
func NewInternalError(message string) *AppError {
	if message == "" {
		message = "An unexpected error occurred"
	}
	return New(CodeInternal, message, "")
}

// Wrap coerces an arbitrary error into an AppError, preserving an existing
// classification.
func Wrap(err error, message string) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return NewInternalError(message).WithCause(err)
}

// Is reports whether err carries the given code.
func Is(err error, code ErrorCode) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code == code
	}
	return false
}

// GetCode extracts the code from an error, defaulting to CodeInternal.
func GetCode(err error) ErrorCode {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return CodeInternal
}

// DetailResponse is the wire shape of every error the API returns.
type DetailResponse struct {
	Detail string `json:"detail"`
}

// ErrorDetails is the internal, richer error view used by logs.
type ErrorDetails struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Meta      map[string]interface{} `json:"meta,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
	Timestamp int64                  `json:"timestamp"`
}

// ToDetails converts an AppError to its internal view.
func ToDetails(err *AppError, requestID string) ErrorDetails {
	return ErrorDetails{
		Code:      err.Code,
		Message:   err.Message,
		Details:   err.Details,
		Meta:      err.Meta,
		RequestID: requestID,
		Timestamp: time.Now().Unix(),
	}
}
