package dto

import (
	"net/http"
	"strings"
)

// Transport-level error codes. Domain error codes pass through as-is;
// these cover errors raised by the HTTP layer itself.
const (
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeNotFound     = "NOT_FOUND"
)

// errorCodeHTTPStatus maps known error codes to HTTP status codes
var errorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:   http.StatusInternalServerError,
	ErrCodeBadRequest: http.StatusBadRequest,

	ErrCodeUnauthorized:     http.StatusUnauthorized,
	"INVALID_CREDENTIALS":   http.StatusUnauthorized,
	"INVALID_SIGNATURE":     http.StatusUnauthorized,
	"INVALID_REFRESH_TOKEN": http.StatusUnauthorized,
	ErrCodeForbidden:        http.StatusForbidden,

	ErrCodeNotFound:        http.StatusNotFound,
	"ALREADY_EXISTS":       http.StatusConflict,
	"CONCURRENCY_CONFLICT": http.StatusConflict,

	"INVALID_STATE":             http.StatusUnprocessableEntity,
	"INVALID_STATUS_TRANSITION": http.StatusUnprocessableEntity,

	"UNSUPPORTED_PROVIDER": http.StatusBadRequest,
	"INVALID_INPUT":        http.StatusBadRequest,

	"STORAGE_UNAVAILABLE": http.StatusServiceUnavailable,
}

// GetHTTPStatus returns the HTTP status for a domain error code.
// Validation-style codes (INVALID_*) default to 400; anything unknown
// is treated as an internal error.
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "INVALID_") {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
