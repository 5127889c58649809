package errors

import (
	"fmt"
	"net/http"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Kind is the failure category, derived from Code.
	Kind Kind `json:"kind"`
	// Message is a human-readable error message naming the failure category.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried by the caller.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the HTTP status code for this error.
	HTTPStatus int `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with kind and retryable derived from the code.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Kind:       KindForCode(code),
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

// --- Request errors ---

// MissingField creates a new AppError for a missing required field.
func MissingField(field string) *AppError {
	return New(ErrCodeMissingField, fmt.Sprintf("Missing required field: %s", field), http.StatusBadRequest).
		WithDetail("field", field)
}

// InvalidInput creates a new AppError for invalid input.
func InvalidInput(field, reason string) *AppError {
	e := New(ErrCodeInvalidInput, fmt.Sprintf("Invalid input: %s", reason), http.StatusBadRequest)
	if field != "" {
		e.WithDetail("field", field)
	}
	return e
}

// Validation creates a new AppError for validation errors.
func Validation(message string) *AppError {
	return New(ErrCodeInvalidInput, message, http.StatusBadRequest)
}

// --- Workflow errors ---
//
// Every workflow failure is reported as 500; Kind tells the categories apart.

// Storage creates a new AppError for a failed storage operation on key.
func Storage(operation, key string, cause error) *AppError {
	return New(ErrCodeStorage, fmt.Sprintf("Storage error: %s %s failed", operation, key), http.StatusInternalServerError).
		WithDetails(map[string]any{"operation": operation, "key": key}).
		WithCause(cause)
}

// Transcode creates a new AppError for a failed audio conversion.
func Transcode(source string, cause error) *AppError {
	return New(ErrCodeTranscode, "Transcode error: audio conversion failed", http.StatusInternalServerError).
		WithDetail("source", source).
		WithCause(cause)
}

// Submission creates a new AppError for a recognition job the backend refused.
func Submission(backend string, cause error) *AppError {
	return New(ErrCodeSubmission, fmt.Sprintf("Submission error: %s rejected the recognition job", backend), http.StatusInternalServerError).
		WithDetail("backend", backend).
		WithCause(cause)
}

// Timeout creates a new AppError for an operation that exceeded its deadline.
func Timeout(operation string) *AppError {
	return New(ErrCodeTimeout, fmt.Sprintf("Timeout error: %s did not complete in time", operation), http.StatusInternalServerError).
		WithDetail("operation", operation)
}

// Backend creates a new AppError for a failure reported by the recognition backend.
func Backend(backend string, cause error) *AppError {
	return New(ErrCodeBackend, fmt.Sprintf("Backend error: %s reported a failure", backend), http.StatusInternalServerError).
		WithDetail("backend", backend).
		WithCause(cause)
}

// Unknown wraps an unclassified error.
func Unknown(cause error) *AppError {
	return New(ErrCodeUnknown, "Unknown error: the request could not be completed", http.StatusInternalServerError).
		WithCause(cause)
}

// --- System errors ---

// Internal creates a new AppError for an internal server error.
func Internal(cause error) *AppError {
	return New(ErrCodeInternal, "An unexpected error occurred. Please try again or contact support.", http.StatusInternalServerError).
		WithCause(cause)
}

// ServiceUnavailable creates a new AppError for a service that is temporarily unavailable.
func ServiceUnavailable(service string) *AppError {
	return New(ErrCodeServiceUnavailable, fmt.Sprintf("The %s is temporarily unavailable. Please try again.", service), http.StatusServiceUnavailable).
		WithDetail("service", service)
}
