// Package errors provides standardized error values for the reconciliation
// pipeline. Components never panic across their boundary; every failure is
// represented as a StandardError carried in a return value.
package errors

import (
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Remote fetch errors.
	ErrCodeVendorNotFound   ErrorCode = "VENDOR_NOT_FOUND"
	ErrCodeFetchTimeout     ErrorCode = "FETCH_TIMEOUT"
	ErrCodeNetworkError     ErrorCode = "NETWORK_ERROR"
	ErrCodeMalformedPayload ErrorCode = "MALFORMED_PAYLOAD"
	ErrCodeRetriesExhausted ErrorCode = "RETRIES_EXHAUSTED"
	ErrCodeHeadersMisconfig ErrorCode = "HEADERS_MISCONFIGURED"

	// Static dataset errors.
	ErrCodeDatasetColumnMissing ErrorCode = "DATASET_COLUMN_MISSING"
	ErrCodeDatasetUnreadable    ErrorCode = "DATASET_UNREADABLE"

	// Normalization states surfaced as informational errors.
	ErrCodeNoMenuItems  ErrorCode = "NO_MENU_ITEMS"
	ErrCodeNoVendorInfo ErrorCode = "NO_VENDOR_INFO"
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

// NewVendorNotFoundError creates a terminal not-found error (HTTP 400/404).
func NewVendorNotFoundError(vendorCode string, status int) *StandardError {
	return &StandardError{
		Code:      ErrCodeVendorNotFound,
		Message:   "Vendor invalid or not found on platform",
		Details:   fmt.Sprintf("vendorCode: %s, status: %d", vendorCode, status),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewFetchTimeoutError creates a retryable per-attempt timeout error.
func NewFetchTimeoutError(vendorCode string, attempt int) *StandardError {
	return &StandardError{
		Code:      ErrCodeFetchTimeout,
		Message:   "Timeout fetching vendor menu",
		Details:   fmt.Sprintf("vendorCode: %s, attempt: %d", vendorCode, attempt),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewNetworkError creates a retryable network error.
func NewNetworkError(vendorCode string, attempt int, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNetworkError,
		Message:   "Network error fetching vendor menu",
		Details:   fmt.Sprintf("vendorCode: %s, attempt: %d, error: %s", vendorCode, attempt, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewMalformedPayloadError creates a terminal upstream-shape error.
func NewMalformedPayloadError(vendorCode, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMalformedPayload,
		Message:   "Upstream payload is not valid structured data",
		Details:   fmt.Sprintf("vendorCode: %s, %s", vendorCode, details),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewRetriesExhaustedError creates the terminal error after the retry ceiling.
func NewRetriesExhaustedError(vendorCode string, attempts int) *StandardError {
	return &StandardError{
		Code:      ErrCodeRetriesExhausted,
		Message:   "Failed to fetch vendor menu after retries",
		Details:   fmt.Sprintf("vendorCode: %s, attempts: %d", vendorCode, attempts),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewHeadersMisconfiguredError creates a terminal configuration error.
func NewHeadersMisconfiguredError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeHeadersMisconfig,
		Message:   "Request headers are not configured correctly",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatasetColumnMissingError reports a required code column absent at load.
func NewDatasetColumnMissingError(table, column string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatasetColumnMissing,
		Message:   "Required vendor code column missing in dataset",
		Details:   fmt.Sprintf("table: %s, column: %s", table, column),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatasetUnreadableError reports a dataset file that could not be read.
func NewDatasetUnreadableError(path string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatasetUnreadable,
		Message:   "Dataset file could not be read",
		Details:   fmt.Sprintf("path: %s, error: %s", path, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewNoMenuItemsError marks the partial-data state: vendor info loaded but no
// menu rows. Informational, not a failure.
func NewNoMenuItemsError(vendorCode string) *StandardError {
	return &StandardError{
		Code:      ErrCodeNoMenuItems,
		Message:   "Vendor info loaded, but no menu items found",
		Details:   fmt.Sprintf("vendorCode: %s", vendorCode),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewNoVendorInfoError marks the not-found state on the static dataset.
func NewNoVendorInfoError(vendorCode string) *StandardError {
	return &StandardError{
		Code:      ErrCodeNoVendorInfo,
		Message:   "No vendor info found in dataset",
		Details:   fmt.Sprintf("vendorCode: %s", vendorCode),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// IsRetryable reports whether err is a StandardError flagged retryable.
func IsRetryable(err error) bool {
	if stdErr, ok := err.(*StandardError); ok {
		return stdErr.Retryable
	}
	return false
}

// CodeOf extracts the ErrorCode from err, or "" for foreign errors.
func CodeOf(err error) ErrorCode {
	if stdErr, ok := err.(*StandardError); ok {
		return stdErr.Code
	}
	return ""
}
