// Package errors provides the standardized error taxonomy for the
// attrition-analysis pipeline.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Fatal at startup: the process cannot serve requests.
	ErrCodeSchemaInvalid ErrorCode = "SCHEMA_INVALID"

	// Per-request, caller-correctable input errors.
	ErrCodeMissingField    ErrorCode = "MISSING_FIELD"
	ErrCodeUnknownCategory ErrorCode = "UNKNOWN_CATEGORY"

	// Per-request but fatal-class: indicates artifact/schema drift
	// between the normalizer and the loaded model.
	ErrCodeDimensionMismatch ErrorCode = "DIMENSION_MISMATCH"

	// Transient: LLM transport failure, timeout, or empty completion.
	// The prediction computed before the call remains valid.
	ErrCodeEngagementUnavailable ErrorCode = "ENGAGEMENT_UNAVAILABLE"

	// Collaborator failures (persistence, sessions, notification).
	ErrCodeReportStoreFailed      ErrorCode = "REPORT_STORE_FAILED"
	ErrCodeSessionNotFound        ErrorCode = "SESSION_NOT_FOUND"
	ErrCodeSessionStoreFailed     ErrorCode = "SESSION_STORE_FAILED"
	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
)

// Sentinel errors for errors.Is checks across package boundaries.
var (
	ErrSchemaInvalid         = errors.New(string(ErrCodeSchemaInvalid))
	ErrMissingField          = errors.New(string(ErrCodeMissingField))
	ErrUnknownCategory       = errors.New(string(ErrCodeUnknownCategory))
	ErrDimensionMismatch     = errors.New(string(ErrCodeDimensionMismatch))
	ErrEngagementUnavailable = errors.New(string(ErrCodeEngagementUnavailable))
	ErrSessionNotFound       = errors.New(string(ErrCodeSessionNotFound))
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	base error
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("StandardError[%s]: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Unwrap exposes the per-code sentinel so callers can use errors.Is
// without depending on the concrete type.
func (e *StandardError) Unwrap() error {
	return e.base
}

// NewSchemaInvalidError creates a non-retryable schema load error.
// It is fatal: a process holding an invalid schema must not serve.
func NewSchemaInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSchemaInvalid,
		Message:   "Model schema artifact is malformed or inconsistent",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
		base:      ErrSchemaInvalid,
	}
}

// NewMissingFieldError names exactly the required field that could not be
// resolved from the record or the default table.
func NewMissingFieldError(field string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMissingField,
		Message:   "Required field missing with no default",
		Details:   fmt.Sprintf("field: %s", field),
		Retryable: false,
		Metadata:  map[string]interface{}{"field": field},
		Timestamp: time.Now().UTC(),
		base:      ErrMissingField,
	}
}

// NewUnknownCategoryError names the field and the rejected label. There is
// deliberately no fallback bucket: an unmapped label would corrupt the
// one-hot encoding the classifier was trained on.
func NewUnknownCategoryError(field, value string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnknownCategory,
		Message:   "Categorical value not present in schema vocabulary",
		Details:   fmt.Sprintf("field: %s, value: %q", field, value),
		Retryable: false,
		Metadata:  map[string]interface{}{"field": field, "value": value},
		Timestamp: time.Now().UTC(),
		base:      ErrUnknownCategory,
	}
}

// NewDimensionMismatchError signals normalizer/schema skew. Never truncate
// or pad the vector; the request must fail loudly.
func NewDimensionMismatchError(got, want int) *StandardError {
	return &StandardError{
		Code:      ErrCodeDimensionMismatch,
		Message:   "Feature vector length does not match model columns",
		Details:   fmt.Sprintf("got: %d, want: %d", got, want),
		Retryable: false,
		Metadata:  map[string]interface{}{"got": got, "want": want},
		Timestamp: time.Now().UTC(),
		base:      ErrDimensionMismatch,
	}
}

// NewEngagementUnavailableError covers transport failures, timeouts, and
// empty or malformed completions. Retry policy belongs to the caller.
func NewEngagementUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeEngagementUnavailable,
		Message:   "LLM engagement service unavailable",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		base:      ErrEngagementUnavailable,
	}
}

// NewReportStoreFailedError creates a retryable persistence error.
func NewReportStoreFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeReportStoreFailed,
		Message:   "Report persistence failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSessionNotFoundError creates a non-retryable session lookup error.
func NewSessionNotFoundError(id string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSessionNotFound,
		Message:   "Consultation session not found",
		Details:   fmt.Sprintf("consultationId: %s", id),
		Retryable: false,
		Metadata:  map[string]interface{}{"consultationId": id},
		Timestamp: time.Now().UTC(),
		base:      ErrSessionNotFound,
	}
}

// NewSessionStoreFailedError creates a retryable session store error.
func NewSessionStoreFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSessionStoreFailed,
		Message:   "Consultation session store failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationSendFailedError creates a retryable notification error.
func NewNotificationSendFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   "Notification delivery failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// CodeOf extracts the ErrorCode from an error chain, or empty string.
func CodeOf(err error) ErrorCode {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr.Code
	}
	return ""
}

// IsCallerCorrectable reports whether the error is an input problem the
// caller can fix and resubmit, as opposed to an operational failure.
func IsCallerCorrectable(err error) bool {
	switch CodeOf(err) {
	case ErrCodeMissingField, ErrCodeUnknownCategory:
		return true
	default:
		return false
	}
}
