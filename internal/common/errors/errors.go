// Package errors provides standardized error handling for the trade
// intelligence HTTP surface.
package errors

import (
	"fmt"
	"net/http"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeInvalidQuery     ErrorCode = "INVALID_QUERY"
	ErrCodeIntentUnknown    ErrorCode = "INTENT_UNKNOWN"
	ErrCodeArtifactNotFound ErrorCode = "ARTIFACT_NOT_FOUND"

	ErrCodeExportWriteFailed    ErrorCode = "EXPORT_WRITE_FAILED"
	ErrCodeVocabularyLoadFailed ErrorCode = "VOCABULARY_LOAD_FAILED"

	ErrCodeCatalogQueryFailed ErrorCode = "CATALOG_QUERY_FAILED"
	ErrCodeCacheUnavailable   ErrorCode = "CACHE_UNAVAILABLE"

	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"

	ErrCodeInternalError ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// HTTPStatus maps an error code to the status returned to the caller.
func (e *StandardError) HTTPStatus() int {
	switch e.Code {
	case ErrCodeInvalidQuery, ErrCodeIntentUnknown:
		return http.StatusBadRequest
	case ErrCodeArtifactNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// ErrorResponse is the JSON body written for any surfaced failure.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
}

// ToResponse strips server-side metadata before the error leaves the process.
func (e *StandardError) ToResponse() ErrorResponse {
	return ErrorResponse{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	}
}

// ==========================
// 2. Error Constructors
// ==========================

// NewInvalidQueryError creates a non-retryable client error for an empty
// or unparseable query.
func NewInvalidQueryError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidQuery,
		Message:   "Query is empty or could not be parsed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewIntentUnknownError creates a non-retryable client error for a query
// whose import/export intent could not be determined.
func NewIntentUnknownError(query string) *StandardError {
	return &StandardError{
		Code:      ErrCodeIntentUnknown,
		Message:   "Could not determine import/export intent from query",
		Details:   fmt.Sprintf("query: %s", query),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewArtifactNotFoundError creates a non-retryable error for a download
// of a file that was never generated or has been cleaned up.
func NewArtifactNotFoundError(filename string) *StandardError {
	return &StandardError{
		Code:      ErrCodeArtifactNotFound,
		Message:   "Export file not found",
		Details:   fmt.Sprintf("filename: %s", filename),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewExportWriteFailedError creates a retryable error for a failed
// artifact write.
func NewExportWriteFailedError(filename string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeExportWriteFailed,
		Message:   "Failed to write export artifact",
		Details:   fmt.Sprintf("filename: %s, error: %s", filename, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewVocabularyLoadFailedError creates a non-retryable startup error.
func NewVocabularyLoadFailedError(path string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeVocabularyLoadFailed,
		Message:   "Failed to load vocabulary tables",
		Details:   fmt.Sprintf("path: %s, error: %s", path, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewCatalogQueryFailedError creates a retryable backend error.
func NewCatalogQueryFailedError(backend string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCatalogQueryFailed,
		Message:   "Catalog backend query error",
		Details:   fmt.Sprintf("backend: %s, error: %s", backend, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewCacheUnavailableError creates a retryable cache error. Callers treat
// this as non-fatal.
func NewCacheUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCacheUnavailable,
		Message:   "Result cache unavailable",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationSendFailedError creates a retryable notification error.
func NewNotificationSendFailedError(channel string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   "Failed to send report notification",
		Details:   fmt.Sprintf("channel: %s, error: %s", channel, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewInternalError wraps any unexpected fault.
func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternalError,
		Message:   "Internal server error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// WithMetadata attaches context fields for logging.
func (e *StandardError) WithMetadata(metadata map[string]interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	for k, v := range metadata {
		e.Metadata[k] = v
	}
	return e
}
