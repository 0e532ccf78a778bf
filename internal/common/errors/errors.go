// Package errors provides standardized error handling for the store-finder service.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeEmptyQuery ErrorCode = "EMPTY_QUERY"

	ErrCodeClassifyFailed  ErrorCode = "CLASSIFY_FAILED"
	ErrCodeClassifyTimeout ErrorCode = "CLASSIFY_TIMEOUT"
	ErrCodeEmbedFailed     ErrorCode = "EMBED_FAILED"
	ErrCodeEmbedTimeout    ErrorCode = "EMBED_TIMEOUT"

	ErrCodeMalformedInferenceResponse ErrorCode = "MALFORMED_INFERENCE_RESPONSE"
	ErrCodeInferenceInitFailed        ErrorCode = "INFERENCE_INIT_FAILED"

	ErrCodeCatalogLoadFailed ErrorCode = "CATALOG_LOAD_FAILED"

	ErrCodeCacheUnavailable ErrorCode = "CACHE_UNAVAILABLE"
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

// ==========================
// 2. Error Constructors
// ==========================

// NewEmptyQueryError creates a non-retryable input validation error.
func NewEmptyQueryError() *StandardError {
	return &StandardError{
		Code:      ErrCodeEmptyQuery,
		Message:   "Query is empty or whitespace only",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewClassifyFailedError creates a retryable classification call error.
func NewClassifyFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeClassifyFailed,
		Message:   "Category classification call failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewClassifyTimeoutError creates a retryable classification timeout error.
func NewClassifyTimeoutError() *StandardError {
	return &StandardError{
		Code:      ErrCodeClassifyTimeout,
		Message:   "Category classification call timed out",
		Details:   "classify call exceeded configured timeout",
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewEmbedFailedError creates a retryable embedding call error.
func NewEmbedFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeEmbedFailed,
		Message:   "Query embedding call failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewEmbedTimeoutError creates a retryable embedding timeout error.
func NewEmbedTimeoutError() *StandardError {
	return &StandardError{
		Code:      ErrCodeEmbedTimeout,
		Message:   "Query embedding call timed out",
		Details:   "embed call exceeded configured timeout",
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewMalformedInferenceResponseError creates a non-retryable shape error.
func NewMalformedInferenceResponseError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeMalformedInferenceResponse,
		Message:   "Inference backend returned an unexpected shape",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInferenceInitFailedError creates a retryable backend initialization error.
func NewInferenceInitFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInferenceInitFailed,
		Message:   "Inference backend initialization failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewCatalogLoadFailedError creates a non-retryable catalog load error.
// Catalog loading happens once at startup; a malformed artifact is fatal.
func NewCatalogLoadFailedError(path string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCatalogLoadFailed,
		Message:   "Catalog artifact could not be loaded",
		Details:   fmt.Sprintf("path: %s, error: %s", path, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewCacheUnavailableError creates a retryable cache error.
func NewCacheUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCacheUnavailable,
		Message:   "Response cache unavailable",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Retry Policy
// ==========================

// GetRetryCount returns the recommended retry count per error code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeClassifyFailed,
		ErrCodeEmbedFailed,
		ErrCodeInferenceInitFailed,
		ErrCodeCacheUnavailable:
		return 3

	case ErrCodeClassifyTimeout,
		ErrCodeEmbedTimeout:
		return 1

	default:
		return 0 // validation and data errors: no retry
	}
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "QUERY"):
		return "VALIDATION"
	case strings.Contains(codeStr, "CLASSIFY") || strings.Contains(codeStr, "EMBED") || strings.Contains(codeStr, "INFERENCE"):
		return "INFERENCE"
	case strings.Contains(codeStr, "CATALOG"):
		return "CATALOG"
	case strings.Contains(codeStr, "CACHE"):
		return "CACHE"
	default:
		return "OTHER"
	}
}
