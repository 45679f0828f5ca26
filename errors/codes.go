package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Connection/Availability errors (retryable)
const (
	// ErrCodeConnectorUnavailable indicates an external endpoint is temporarily unavailable.
	ErrCodeConnectorUnavailable ErrorCode = "CONNECTOR_UNAVAILABLE"
	// ErrCodeConnectionFailed indicates a failed connection to an external system.
	ErrCodeConnectionFailed ErrorCode = "CONNECTION_FAILED"
	// ErrCodeTimeout indicates an operation timed out.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
)

// Pipeline errors
const (
	// ErrCodeTransformFailed indicates a transform stage rejected an item.
	ErrCodeTransformFailed ErrorCode = "TRANSFORM_FAILED"
	// ErrCodeSourceFailed indicates an upstream stage completed with an error.
	ErrCodeSourceFailed ErrorCode = "SOURCE_FAILED"
	// ErrCodeCanceled indicates a stage observed cancellation before finishing.
	ErrCodeCanceled ErrorCode = "CANCELED"
	// ErrCodeWriteRejected indicates a write was attempted after completion was requested.
	ErrCodeWriteRejected ErrorCode = "WRITE_REJECTED"
)

// Validation errors
const (
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeMissingField indicates a required field is missing.
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
	// ErrCodeInvalidFormat indicates a field has an invalid format.
	ErrCodeInvalidFormat ErrorCode = "INVALID_FORMAT"
)

// Internal errors
const (
	// ErrCodeInternal indicates an internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
	// ErrCodeStorage indicates a durable-store error.
	ErrCodeStorage ErrorCode = "STORAGE_ERROR"
	// ErrCodeEncoding indicates a payload could not be encoded or decoded.
	ErrCodeEncoding ErrorCode = "ENCODING_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeConnectorUnavailable: true,
	ErrCodeConnectionFailed:     true,
	ErrCodeTimeout:              true,
	ErrCodeStorage:              true,
	ErrCodeInternal:             false,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
