package errors

// ErrorCode is a machine-readable error code.
type ErrorCode string

// Request errors.
const (
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeMissingField indicates a required field is missing.
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
)

// Workflow errors.
const (
	// ErrCodeStorage indicates an object could not be read from or written to storage.
	ErrCodeStorage ErrorCode = "STORAGE_ERROR"
	// ErrCodeTranscode indicates the audio conversion process failed.
	ErrCodeTranscode ErrorCode = "TRANSCODE_ERROR"
	// ErrCodeSubmission indicates the recognition backend rejected a job.
	ErrCodeSubmission ErrorCode = "SUBMISSION_ERROR"
	// ErrCodeTimeout indicates a job did not finish within its deadline.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	// ErrCodeBackend indicates the recognition backend reported a failure while running a job.
	ErrCodeBackend ErrorCode = "BACKEND_ERROR"
)

// System errors.
const (
	// ErrCodeInternal indicates an internal server error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
	// ErrCodeServiceUnavailable indicates the service is temporarily unavailable.
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	// ErrCodeUnknown indicates an error that carried no classification.
	ErrCodeUnknown ErrorCode = "UNKNOWN_ERROR"
)

// Kind is the stable failure category reported to callers.
type Kind string

const (
	KindValidation Kind = "validation"
	KindStorage    Kind = "storage"
	KindTranscode  Kind = "transcode"
	KindSubmission Kind = "submission"
	KindTimeout    Kind = "timeout"
	KindBackend    Kind = "backend"
	KindUnknown    Kind = "unknown"
)

var codeKinds = map[ErrorCode]Kind{
	ErrCodeInvalidInput:       KindValidation,
	ErrCodeMissingField:       KindValidation,
	ErrCodeStorage:            KindStorage,
	ErrCodeTranscode:          KindTranscode,
	ErrCodeSubmission:         KindSubmission,
	ErrCodeTimeout:            KindTimeout,
	ErrCodeBackend:            KindBackend,
	ErrCodeInternal:           KindUnknown,
	ErrCodeServiceUnavailable: KindUnknown,
	ErrCodeUnknown:            KindUnknown,
}

// KindForCode returns the failure category for a code. Unmapped codes are unknown.
func KindForCode(code ErrorCode) Kind {
	if k, ok := codeKinds[code]; ok {
		return k
	}
	return KindUnknown
}

var retryableCodes = map[ErrorCode]bool{
	ErrCodeServiceUnavailable: true,
	ErrCodeStorage:            true,
	ErrCodeTimeout:            true,
	ErrCodeBackend:            true,
	ErrCodeInternal:           false,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
