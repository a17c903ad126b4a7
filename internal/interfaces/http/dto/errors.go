package dto

import (
	"net/http"
	"strings"
)

// General error codes
const (
	ErrCodeInternal   = "INTERNAL_ERROR"
	ErrCodeValidation = "VALIDATION_ERROR"
	ErrCodeBadRequest = "BAD_REQUEST"
)

// Authentication error codes
const (
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeTokenExpired = "TOKEN_EXPIRED"
	ErrCodeTokenInvalid = "TOKEN_INVALID"
	ErrCodeTokenRevoked = "TOKEN_REVOKED"
)

// Resource error codes
const (
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeAlreadyExists       = "ALREADY_EXISTS"
	ErrCodeConcurrencyConflict = "CONCURRENCY_CONFLICT"
	ErrCodeDuplicateRequest    = "DUPLICATE_REQUEST"
)

// Business rule error codes
const (
	ErrCodeInvalidState      = "INVALID_STATE"
	ErrCodeInsufficientStock = "INSUFFICIENT_STOCK"
)

// Input error codes
const (
	ErrCodeInvalidInput    = "INVALID_INPUT"
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
	ErrCodeRateLimited     = "RATE_LIMIT_EXCEEDED"
)

// ErrorCodeHTTPStatus maps exact error codes to HTTP status codes.
// Codes missing here are classified by suffix or prefix in GetHTTPStatus.
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:   http.StatusInternalServerError,
	ErrCodeValidation: http.StatusBadRequest,
	ErrCodeBadRequest: http.StatusBadRequest,

	ErrCodeUnauthorized:        http.StatusUnauthorized,
	ErrCodeTokenExpired:        http.StatusUnauthorized,
	ErrCodeTokenInvalid:        http.StatusUnauthorized,
	ErrCodeTokenRevoked:        http.StatusUnauthorized,
	"INVALID_CREDENTIALS":      http.StatusUnauthorized,
	ErrCodeForbidden:           http.StatusForbidden,
	"ACCOUNT_DEACTIVATED":      http.StatusForbidden,
	"CANNOT_MODIFY_SELF":       http.StatusForbidden,
	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeDuplicateRequest:    http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	ErrCodeInvalidState:         http.StatusUnprocessableEntity,
	ErrCodeInsufficientStock:    http.StatusUnprocessableEntity,
	"INVALID_STATUS_TRANSITION": http.StatusUnprocessableEntity,
	"ITEM_NOT_AVAILABLE":        http.StatusUnprocessableEntity,
	"CART_EMPTY":                http.StatusUnprocessableEntity,
	"CANNOT_CANCEL":             http.StatusUnprocessableEntity,
	"ORDER_CANCELLED":           http.StatusUnprocessableEntity,
	"ORDER_NOT_CANCELLED":       http.StatusUnprocessableEntity,
	"BASE_CURRENCY_RATE":        http.StatusUnprocessableEntity,
	"TOO_MANY_IMAGES":           http.StatusUnprocessableEntity,
	"NOT_CARD_PAYMENT":          http.StatusUnprocessableEntity,

	ErrCodeInvalidInput:      http.StatusBadRequest,
	"UNSUPPORTED_MEDIA_TYPE": http.StatusUnsupportedMediaType,
	ErrCodeRequestTooLarge:   http.StatusRequestEntityTooLarge,
	ErrCodeRateLimited:       http.StatusTooManyRequests,

	"INVOICE_UNAVAILABLE":         http.StatusServiceUnavailable,
	"PAYMENT_GATEWAY_UNAVAILABLE": http.StatusServiceUnavailable,
	"PAYMENT_GATEWAY_ERROR":       http.StatusBadGateway,
	"PASSWORD_HASH_ERROR":         http.StatusInternalServerError,
	"TOKEN_GENERATION_FAILED":     http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes are 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	switch {
	case strings.HasSuffix(code, "_NOT_FOUND"):
		return http.StatusNotFound
	case strings.HasSuffix(code, "_IN_USE"), strings.HasSuffix(code, "_TAKEN"):
		return http.StatusConflict
	case strings.HasPrefix(code, "INVALID_"), strings.HasPrefix(code, "UNSUPPORTED_"):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
