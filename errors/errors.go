package errors

import (
	"errors"
	"fmt"
)

// Error is the unified streamkit error type.
type Error struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *Error) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *Error) WithDetails(details map[string]any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new Error with automatic retryable detection.
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:      code,
		Message:   message,
		Retryable: IsRetryableCode(code),
	}
}

// AsError extracts an *Error from err's chain, or nil if there is none.
func AsError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return nil
}

// Wrap converts any error into an *Error. Existing *Error values pass
// through (unwrapping if needed); everything else becomes an internal
// error with the original as cause.
func Wrap(err error) *Error {
	if err == nil {
		return nil
	}
	if e := AsError(err); e != nil {
		return e
	}
	return Internal(err)
}

// IsRetryable reports whether err or any error in its chain is marked retryable.
func IsRetryable(err error) bool {
	if e := AsError(err); e != nil {
		return e.Retryable
	}
	return false
}

// --- Common Error Constructors ---

// ConnectorUnavailable creates a new Error for a connector endpoint that is temporarily unavailable.
func ConnectorUnavailable(connector string) *Error {
	return &Error{
		Code: ErrCodeConnectorUnavailable, Message: fmt.Sprintf("The %s connector is temporarily unavailable.", connector),
		Retryable: true,
		Details:   map[string]any{"connector": connector},
	}
}

// ConnectionFailed creates a new Error for a failed connection to an external system.
func ConnectionFailed(connector string, cause error) *Error {
	return &Error{
		Code: ErrCodeConnectionFailed, Message: fmt.Sprintf("Unable to connect to %s.", connector),
		Retryable: true,
		Details:   map[string]any{"connector": connector}, Cause: cause,
	}
}

// Timeout creates a new Error for an operation that timed out.
func Timeout(operation string) *Error {
	return &Error{
		Code: ErrCodeTimeout, Message: fmt.Sprintf("Operation %s took too long.", operation),
		Retryable: true,
		Details:   map[string]any{"operation": operation},
	}
}

// TransformFailed creates a new Error for a transform that rejected an item.
func TransformFailed(stage string, cause error) *Error {
	return &Error{
		Code: ErrCodeTransformFailed, Message: fmt.Sprintf("Transform stage %s failed.", stage),
		Retryable: false,
		Details:   map[string]any{"stage": stage}, Cause: cause,
	}
}

// SourceFailed creates a new Error for an upstream stage that completed with an error.
func SourceFailed(stage string, cause error) *Error {
	return &Error{
		Code: ErrCodeSourceFailed, Message: fmt.Sprintf("Upstream stage %s completed with an error.", stage),
		Retryable: false,
		Details:   map[string]any{"stage": stage}, Cause: cause,
	}
}

// Canceled creates a new Error for a stage that observed cancellation.
// The cause should carry the context error so errors.Is keeps working.
func Canceled(operation string, cause error) *Error {
	return &Error{
		Code: ErrCodeCanceled, Message: fmt.Sprintf("Operation %s was canceled.", operation),
		Retryable: false,
		Details:   map[string]any{"operation": operation}, Cause: cause,
	}
}

// WriteRejected creates a new Error for a write attempted after completion.
func WriteRejected(stage string) *Error {
	return &Error{
		Code: ErrCodeWriteRejected, Message: fmt.Sprintf("Write rejected: stage %s already completed.", stage),
		Retryable: false,
		Details:   map[string]any{"stage": stage},
	}
}

// InvalidInput creates a new Error for invalid input.
func InvalidInput(field, reason string) *Error {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &Error{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("Invalid input: %s", reason),
		Retryable: false, Details: details,
	}
}

// Validation creates a new Error for validation errors.
func Validation(message string) *Error {
	return &Error{
		Code: ErrCodeInvalidInput, Message: message,
		Retryable: false,
	}
}

// MissingField creates a new Error for a missing required field.
func MissingField(field string) *Error {
	return &Error{
		Code: ErrCodeMissingField, Message: fmt.Sprintf("Missing required field: %s", field),
		Retryable: false,
		Details:   map[string]any{"field": field},
	}
}

// InvalidFormat creates a new Error for an invalid field format.
func InvalidFormat(field, expectedFormat string) *Error {
	return &Error{
		Code: ErrCodeInvalidFormat, Message: fmt.Sprintf("Invalid format for %s. Expected: %s", field, expectedFormat),
		Retryable: false,
		Details:   map[string]any{"field": field, "expected_format": expectedFormat},
	}
}

// Internal creates a new Error for an internal error.
func Internal(cause error) *Error {
	return &Error{
		Code: ErrCodeInternal, Message: "An unexpected internal error occurred.",
		Retryable: false, Cause: cause,
	}
}

// Storage creates a new Error for a durable-store failure.
func Storage(operation string, cause error) *Error {
	return &Error{
		Code: ErrCodeStorage, Message: fmt.Sprintf("Store operation %s failed.", operation),
		Retryable: true,
		Details:   map[string]any{"operation": operation}, Cause: cause,
	}
}

// Encoding creates a new Error for a payload that could not be encoded or decoded.
func Encoding(operation string, cause error) *Error {
	return &Error{
		Code: ErrCodeEncoding, Message: fmt.Sprintf("Payload %s failed.", operation),
		Retryable: false,
		Details:   map[string]any{"operation": operation}, Cause: cause,
	}
}
