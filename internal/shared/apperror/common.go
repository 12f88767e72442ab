package apperror

import "net/http"

var (
	ErrForbidden = New(CodeForbidden, "You do not have permission to access this resource", http.StatusForbidden)

	// ErrInternal is what clients see for any error that is not an AppError.
	ErrInternal = New(CodeInternalError, "An unexpected error occurred", http.StatusInternalServerError)
)
