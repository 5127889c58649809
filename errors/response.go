package errors

import (
	stderrors "errors"
)

// ErrorResponse is the JSON structure returned to clients.
type ErrorResponse struct {
	Error     string         `json:"error"`
	Kind      Kind           `json:"kind"`
	Code      ErrorCode      `json:"code"`
	Retryable bool           `json:"retryable"`
	Details   map[string]any `json:"details,omitempty"`
}

// ToResponse converts an AppError to an ErrorResponse for JSON serialization.
func (e *AppError) ToResponse() ErrorResponse {
	kind := e.Kind
	if kind == "" {
		kind = KindForCode(e.Code)
	}
	return ErrorResponse{
		Error:     e.Message,
		Kind:      kind,
		Code:      e.Code,
		Retryable: e.Retryable,
		Details:   e.Details,
	}
}

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Classify returns err as an AppError, wrapping untagged errors as unknown.
// A nil error returns nil.
func Classify(err error) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := AsAppError(err); ok {
		return appErr
	}
	return Unknown(err)
}

// KindOf returns the failure category of err, or KindUnknown when err is untagged.
func KindOf(err error) Kind {
	if appErr, ok := AsAppError(err); ok {
		if appErr.Kind == "" {
			return KindForCode(appErr.Code)
		}
		return appErr.Kind
	}
	return KindUnknown
}
