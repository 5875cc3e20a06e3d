// Package dto defines API request/response types and error handling.
//
// Request types carry path/query struct tags for parameter binding by
// the handler wrapper. Error handling follows a structured pattern:
// ErrorCode gives machine-readable classification, APIError pairs it
// with an HTTP status and a details map, and constructor functions
// build the common cases. The details map is how the valid-columns list
// reaches the client on a bad column reference.
package dto

import (
	"fmt"
	"maps"
	"net/http"
)

// ErrorCode defines specific error types for the API.
type ErrorCode string

const (
	// ErrorCodeValidationFailed is returned when input data fails validation.
	ErrorCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	// ErrorCodeMissingField is returned when a required field is missing.
	ErrorCodeMissingField ErrorCode = "MISSING_FIELD"
	// ErrorCodeColumnNotFound is returned when a parameter names a
	// column the dataset does not have.
	ErrorCodeColumnNotFound ErrorCode = "COLUMN_NOT_FOUND"
	// ErrorCodeRowNotFound is returned when no row matches a lookup.
	ErrorCodeRowNotFound ErrorCode = "ROW_NOT_FOUND"
	// ErrorCodeDatasetEmpty is returned when no data has been loaded.
	ErrorCodeDatasetEmpty ErrorCode = "DATASET_EMPTY"
	// ErrorCodeInternal is returned when an unexpected server error occurs.
	ErrorCodeInternal ErrorCode = "INTERNAL_ERROR"
	// ErrorCodeRateLimited is returned when a client exceeds the rate limit.
	ErrorCodeRateLimited ErrorCode = "RATE_LIMITED"
)

// ErrorDetails defines the structured error information in a response.
type ErrorDetails struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// ErrorResponse is the standard API error response.
type ErrorResponse struct {
	Error   ErrorDetails   `json:"error"`
	Details map[string]any `json:"details,omitempty"`
}

// ErrorWithStatus is an error that includes an HTTP status code and error code.
type ErrorWithStatus interface {
	Error() string
	StatusCode() int
	Code() ErrorCode
	Details() map[string]any
}

// APIError is a concrete error type with status code and optional details.
type APIError struct {
	statusCode int
	code       ErrorCode
	message    string
	details    map[string]any
	wrappedErr error
}

// NewAPIError creates a new APIError with the given status code and message.
func NewAPIError(statusCode int, code ErrorCode, message string) *APIError {
	return &APIError{
		statusCode: statusCode,
		code:       code,
		message:    message,
		details:    make(map[string]any),
	}
}

// WithDetails adds details to the error.
func (e *APIError) WithDetails(details map[string]any) *APIError {
	if e.details == nil {
		e.details = make(map[string]any)
	}
	maps.Copy(e.details, details)
	return e
}

// WithDetail adds a single detail to the error.
func (e *APIError) WithDetail(key string, value any) *APIError {
	if e.details == nil {
		e.details = make(map[string]any)
	}
	e.details[key] = value
	return e
}

// Wrap wraps an underlying error.
func (e *APIError) Wrap(err error) *APIError {
	e.wrappedErr = err
	return e
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.wrappedErr != nil {
		return fmt.Sprintf("%s: %v", e.message, e.wrappedErr)
	}
	return e.message
}

// StatusCode returns the HTTP status code.
func (e *APIError) StatusCode() int {
	return e.statusCode
}

// Code returns the error code.
func (e *APIError) Code() ErrorCode {
	return e.code
}

// Details returns additional error details.
func (e *APIError) Details() map[string]any {
	return e.details
}

// Unwrap returns the wrapped error if any.
func (e *APIError) Unwrap() error {
	return e.wrappedErr
}

// Predefined error constructors for common cases

// BadRequest creates a 400 Bad Request error.
func BadRequest(message string) *APIError {
	return NewAPIError(http.StatusBadRequest, ErrorCodeValidationFailed, message)
}

// MissingField creates a 400 Bad Request error for a missing field.
func MissingField(fieldName string) *APIError {
	return NewAPIError(http.StatusBadRequest, ErrorCodeMissingField, "Missing required field: "+fieldName)
}

// ColumnNotFound creates a 400 error naming the unknown column and
// listing the valid ones.
func ColumnNotFound(column string, validColumns []string) *APIError {
	return NewAPIError(http.StatusBadRequest, ErrorCodeColumnNotFound, fmt.Sprintf("Column %q does not exist", column)).
		WithDetail("column", column).
		WithDetail("validColumns", validColumns)
}

// RowNotFound creates a 404 error for a lookup that matched no row.
func RowNotFound(id string) *APIError {
	return NewAPIError(http.StatusNotFound, ErrorCodeRowNotFound, fmt.Sprintf("No row with ID %q", id)).
		WithDetail("id", id)
}

// DatasetEmpty creates a 404 error for queries against a dataset that
// has not been loaded or holds no rows.
func DatasetEmpty() *APIError {
	return NewAPIError(http.StatusNotFound, ErrorCodeDatasetEmpty, "No data loaded")
}

// Internal returns a 500 Internal Server Error.
func Internal(message string) *APIError {
	return NewAPIError(http.StatusInternalServerError, ErrorCodeInternal, message)
}

// RateLimitExceeded creates a 429 error with retry timing.
func RateLimitExceeded(retryAfterSeconds int) *APIError {
	return NewAPIError(http.StatusTooManyRequests, ErrorCodeRateLimited, "Rate limit exceeded").
		WithDetail("retryAfterSeconds", retryAfterSeconds)
}
