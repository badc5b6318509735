// Package apperror provides structured error handling following RFC 7807 Problem Details.
// All business errors must use AppError for consistent API responses.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes following domain-driven design
const (
	// Infrastructure errors (5xx)
	CodeInternal = "INTERNAL_ERROR"
	CodeDatabase = "DATABASE_ERROR"

	// Validation errors (400)
	CodeValidation   = "VALIDATION_ERROR"
	CodeInvalidInput = "INVALID_INPUT"

	// Business rule violations (422)
	CodeBusinessRule     = "BUSINESS_RULE_VIOLATION"
	CodeInvalidDivisor   = "INVALID_DIVISOR"
	CodeMarginOutOfRange = "MARGIN_OUT_OF_RANGE"
	CodePromoBelowCost   = "PROMO_BELOW_COST"
	CodeAmbiguousRole    = "AMBIGUOUS_ROLE"
	CodePriceLocked      = "PRICE_LOCKED"
	CodeStatusLocked     = "STATUS_LOCKED"
	CodeChannelMismatch  = "CHANNEL_MISMATCH"

	// Authorization errors (401, 403)
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"

	// Not found (404)
	CodeNotFound = "NOT_FOUND"

	// Conflict (409)
	CodeConflict  = "CONFLICT"
	CodeDuplicate = "DUPLICATE_ENTRY"
)

// AppError is the standard error type for the platform.
// It implements error interface and provides structured details for API responses.
type AppError struct {
	// Code is a machine-readable error identifier
	Code string `json:"code"`

	// Message is a human-readable error description
	Message string `json:"message"`

	// Details contains additional context (field errors, offending values, etc.)
	Details map[string]any `json:"details,omitempty"`

	// HTTPStatus is the suggested HTTP status code
	HTTPStatus int `json:"-"`

	// Err is the underlying error (not exposed in JSON)
	Err error `json:"-"`
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail adds a key-value pair to error details
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithCause sets the underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Err = err
	return e
}

// --- Factory functions for common errors ---

// NewValidation creates a validation error (400)
func NewValidation(message string) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewNotFound creates a not found error (404)
func NewNotFound(entity string, id any) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", entity),
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"entity": entity, "id": id},
	}
}

// NewBusinessRule creates a business rule violation error (422)
func NewBusinessRule(code, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: http.StatusUnprocessableEntity,
	}
}

// NewInvalidDivisor reports a zero/negative/missing divisor used in a price
// or stock computation. The message always carries the field name, item code,
// operation and offending value so bad master data can be traced from logs.
func NewInvalidDivisor(field, itemCode, operation string, value any) *AppError {
	return &AppError{
		Code: CodeInvalidDivisor,
		Message: fmt.Sprintf("invalid %s for item %s during %s: %v",
			field, itemCode, operation, value),
		HTTPStatus: http.StatusUnprocessableEntity,
		Details: map[string]any{
			"field":     field,
			"item_code": itemCode,
			"operation": operation,
			"value":     value,
		},
	}
}

// NewMarginOutOfRange reports a custom margin outside [0, 100].
func NewMarginOutOfRange(itemCode string, value any) *AppError {
	return &AppError{
		Code:       CodeMarginOutOfRange,
		Message:    fmt.Sprintf("custom margin %v is outside 0-100", value),
		HTTPStatus: http.StatusUnprocessableEntity,
		Details:    map[string]any{"item_code": itemCode, "value": value},
	}
}

// NewPromoBelowCost reports a promotional price that remains at or below cost
// after the minimum-margin adjustment. This is fatal, never silently clamped.
func NewPromoBelowCost(itemCode string, promo, cost any) *AppError {
	return &AppError{
		Code:       CodePromoBelowCost,
		Message:    "promotional price is at or below cost after adjustment",
		HTTPStatus: http.StatusUnprocessableEntity,
		Details: map[string]any{
			"item_code":       itemCode,
			"converted_promo": promo,
			"cost":            cost,
		},
	}
}

// NewAmbiguousRole reports multiple parent-like items (WDF=1) under a shared
// item code. Non-fatal: callers log it and keep processing the batch.
func NewAmbiguousRole(itemCode string, parentCount int) *AppError {
	return &AppError{
		Code:       CodeAmbiguousRole,
		Message:    fmt.Sprintf("item code %s has %d parent-like units", itemCode, parentCount),
		HTTPStatus: http.StatusUnprocessableEntity,
		Details:    map[string]any{"item_code": itemCode, "parent_count": parentCount},
	}
}

// NewInternal creates an internal server error (hides details from client)
func NewInternal(err error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "Internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// NewUnauthorized creates an authentication error (401)
func NewUnauthorized(message string) *AppError {
	return &AppError{
		Code:       CodeUnauthorized,
		Message:    message,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// NewForbidden creates an authorization error (403)
func NewForbidden(message string) *AppError {
	return &AppError{
		Code:       CodeForbidden,
		Message:    message,
		HTTPStatus: http.StatusForbidden,
	}
}

// NewConflict creates a conflict error (409)
func NewConflict(message string) *AppError {
	return &AppError{
		Code:       CodeConflict,
		Message:    message,
		HTTPStatus: http.StatusConflict,
	}
}

// NewDuplicate creates a duplicate entry error (409)
func NewDuplicate(entity, field, value string) *AppError {
	return &AppError{
		Code:       CodeDuplicate,
		Message:    fmt.Sprintf("%s with this %s already exists", entity, field),
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"entity": entity, "field": field, "value": value},
	}
}

// --- Helper functions ---

// IsAppError checks if error is AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError extracts AppError from error chain
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// GetHTTPStatus returns appropriate HTTP status for any error
func GetHTTPStatus(err error) int {
	if appErr, ok := AsAppError(err); ok {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

// IsNotFound checks if error is CodeNotFound
func IsNotFound(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == CodeNotFound
	}
	return false
}

// IsCode checks if error carries the given code.
func IsCode(err error, code string) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == code
	}
	return false
}
