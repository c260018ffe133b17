package dto

import (
	"net/http"
	"strings"
)

// Error code constants for transport-level failures. Domain errors keep
// their own codes and are mapped to HTTP status codes below.

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	// ErrCodeValidation is the base code for validation errors
	ErrCodeValidation = "ERR_VALIDATION"
)

// Authentication error codes
const (
	// ErrCodeUnauthorized is used when authentication is required but missing/invalid
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	// ErrCodeForbidden is used when the user lacks permission
	ErrCodeForbidden = "ERR_FORBIDDEN"
	// ErrCodeTokenExpired is used when the auth token has expired
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	// ErrCodeTokenInvalid is used when the auth token is invalid
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeConflict is used for general resource conflicts
	ErrCodeConflict = "ERR_CONFLICT"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
)

// Rate limiting error codes
const (
	// ErrCodeRateLimited is used when rate limit is exceeded
	ErrCodeRateLimited = "ERR_RATE_LIMITED"
	// ErrCodePayloadTooLarge is used when the request body exceeds the limit
	ErrCodePayloadTooLarge = "ERR_PAYLOAD_TOO_LARGE"
)

// ErrorCodeHTTPStatus maps transport error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation: http.StatusBadRequest,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,

	ErrCodeNotFound: http.StatusNotFound,
	ErrCodeConflict: http.StatusConflict,

	ErrCodeBadRequest:  http.StatusBadRequest,
	ErrCodeInvalidJSON: http.StatusBadRequest,

	ErrCodeRateLimited:     http.StatusTooManyRequests,
	ErrCodePayloadTooLarge: http.StatusRequestEntityTooLarge,
}

// GetHTTPStatus returns the HTTP status code for a transport error code.
// Returns 500 Internal Server Error if the error code is not found.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// domainCodeStatus maps domain error codes that fall outside the default
// business-rule classification to their HTTP status codes. Codes absent
// from this map resolve through DomainErrorHTTPStatus.
var domainCodeStatus = map[string]int{
	// Missing resources
	"NOT_FOUND":        http.StatusNotFound,
	"USER_NOT_FOUND":   http.StatusNotFound,
	"ITEM_NOT_FOUND":   http.StatusNotFound,
	"UPLOAD_NOT_FOUND": http.StatusNotFound,

	// Duplicates and write conflicts
	"ALREADY_EXISTS":          http.StatusConflict,
	"EMAIL_TAKEN":             http.StatusConflict,
	"SKU_TAKEN":               http.StatusConflict,
	"SLUG_TAKEN":              http.StatusConflict,
	"ORDER_EXISTS":            http.StatusConflict,
	"DUPLICATE_PRODUCT":       http.StatusConflict,
	"CONCURRENCY_CONFLICT":    http.StatusConflict,
	"CONCURRENT_MODIFICATION": http.StatusConflict,

	// Authentication
	"UNAUTHORIZED":        http.StatusUnauthorized,
	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	"TOKEN_EXPIRED":       http.StatusUnauthorized,
	"TOKEN_INVALID":       http.StatusUnauthorized,
	"TOKEN_MAX_REFRESH":   http.StatusUnauthorized,

	// Authorization and blocked accounts
	"FORBIDDEN":           http.StatusForbidden,
	"ACCOUNT_LOCKED":      http.StatusForbidden,
	"ACCOUNT_DEACTIVATED": http.StatusForbidden,
	"ACCOUNT_INACTIVE":    http.StatusForbidden,
	"USER_DEACTIVATED":    http.StatusForbidden,
	"SELLER_SUSPENDED":    http.StatusForbidden,
	"SELLER_NOT_ACTIVE":   http.StatusForbidden,
	"BUYER_BLOCKED":       http.StatusForbidden,

	// Lifecycle violations, kept out of the INVALID_ prefix rule
	"INVALID_STATE": http.StatusUnprocessableEntity,

	// Expired share links
	"QUOTATION_EXPIRED":  http.StatusGone,
	"INVITATION_EXPIRED": http.StatusGone,

	// Infrastructure
	"INTERNAL_ERROR":       http.StatusInternalServerError,
	"PASSWORD_HASH_ERROR":  http.StatusInternalServerError,
	"RENDERER_UNAVAILABLE": http.StatusServiceUnavailable,
}

// DomainErrorHTTPStatus resolves the HTTP status for a domain error code.
// Validation-style codes map to 400; everything unclassified is treated
// as a business rule violation and maps to 422.
func DomainErrorHTTPStatus(code string) int {
	if status, ok := domainCodeStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "INVALID_") {
		return http.StatusBadRequest
	}
	return http.StatusUnprocessableEntity
}
