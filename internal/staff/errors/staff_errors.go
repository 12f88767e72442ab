package stafferrors

import (
	"net/http"

	"go-hotel-staff/internal/shared/apperror"
)

var (
	ErrStaffNotFound = apperror.New(
		apperror.CodeNotFound,
		"Staff not found",
		http.StatusNotFound,
	)
	ErrStaffAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"Staff with the same email already exists",
		http.StatusConflict,
	)
	ErrInvalidStaffID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid staff ID",
		http.StatusBadRequest,
	)
	ErrInvalidCompanyID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid company ID",
		http.StatusBadRequest,
	)
)
