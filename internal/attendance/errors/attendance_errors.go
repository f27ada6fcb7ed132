package attendanceerrors

import (
	"net/http"

	"go-attendance/internal/shared/apperror"
	"go-attendance/internal/shared/i18n"
)

var (
	ErrInvalidType = apperror.NewLocalized(
		apperror.CodeInvalidArgument,
		i18n.ErrInvalidType,
		"Type must be clock_in or clock_out",
		http.StatusBadRequest,
	)

	ErrCompanyMismatch = apperror.NewLocalized(
		apperror.CodePermissionDenied,
		i18n.ErrCompanyMismatch,
		"You do not belong to this company",
		http.StatusForbidden,
	)

	ErrAlreadyClockedIn = apperror.NewLocalized(
		apperror.CodeFailedPrecondition,
		i18n.ErrAlreadyClockedIn,
		"Already clocked in",
		http.StatusPreconditionFailed,
	)

	ErrNoClockIn = apperror.NewLocalized(
		apperror.CodeFailedPrecondition,
		i18n.ErrNoClockIn,
		"No clock-in record found",
		http.StatusPreconditionFailed,
	)

	ErrAlreadyClockedOut = apperror.NewLocalized(
		apperror.CodeFailedPrecondition,
		i18n.ErrAlreadyClockedOut,
		"Already clocked out",
		http.StatusPreconditionFailed,
	)
)
