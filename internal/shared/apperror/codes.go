package apperror

import "net/http"

// Codes returned in the error envelope. Leave and schedule rejections reuse
// these: bad input is INVALID_INPUT, a rule the current state forbids
// (balance, approved leave on the shift date, non-pending transition) is
// INVALID_STATE, and an active-request or slot collision is CONFLICT.
const (
	CodeInvalidInput = "INVALID_INPUT"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeInvalidState = "INVALID_STATE"

	CodeInternalError      = "INTERNAL_ERROR"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

var defaultStatus = map[string]int{
	CodeInvalidInput:       http.StatusBadRequest,
	CodeUnauthorized:       http.StatusUnauthorized,
	CodeForbidden:          http.StatusForbidden,
	CodeNotFound:           http.StatusNotFound,
	CodeConflict:           http.StatusConflict,
	CodeInvalidState:       http.StatusUnprocessableEntity,
	CodeInternalError:      http.StatusInternalServerError,
	CodeServiceUnavailable: http.StatusServiceUnavailable,
}

// DefaultStatus is the HTTP status for code when an AppError carries none.
// Unknown codes map to 500.
func DefaultStatus(code string) int {
	if s, ok := defaultStatus[code]; ok {
		return s
	}
	return http.StatusInternalServerError
}
