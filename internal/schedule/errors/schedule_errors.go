package scheduleerrors

import (
	"net/http"

	"go-hotel-staff/internal/shared/apperror"
)

var (
	ErrInvalidCompanyID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid company id",
		http.StatusBadRequest,
	)
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrInvalidScheduleID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid schedule id",
		http.StatusBadRequest,
	)
	ErrInvalidStaffID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid staff id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidShift = apperror.New(
		apperror.CodeInvalidInput,
		"shift must be MORNING, AFTERNOON or NIGHT",
		http.StatusBadRequest,
	)
	ErrInvalidWeekOffset = apperror.New(
		apperror.CodeInvalidInput,
		"week_offset must be an integer",
		http.StatusBadRequest,
	)
	ErrStaffNotFound = apperror.New(
		apperror.CodeNotFound,
		"staff not found",
		http.StatusNotFound,
	)
	ErrNoAvailableStaff = apperror.New(
		apperror.CodeInvalidState,
		"all selected staff are on approved leave for this date",
		http.StatusUnprocessableEntity,
	)
	ErrScheduleSlotTaken = apperror.New(
		apperror.CodeConflict,
		"staff member is already scheduled for this shift",
		http.StatusConflict,
	)
	ErrScheduleNotFound = apperror.New(
		apperror.CodeNotFound,
		"schedule not found",
		http.StatusNotFound,
	)
)
