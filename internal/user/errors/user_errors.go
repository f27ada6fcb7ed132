package usererrors

import (
	"net/http"

	"go-attendance/internal/shared/apperror"
	"go-attendance/internal/shared/i18n"
)

var (
	ErrUserNotFound = apperror.NewLocalized(
		apperror.CodeNotFound,
		i18n.ErrUserNotFound,
		"User not found",
		http.StatusNotFound,
	)

	ErrNotAdmin = apperror.NewLocalized(
		apperror.CodePermissionDenied,
		i18n.ErrPermissionDenied,
		"Administrator privileges are required",
		http.StatusForbidden,
	)

	ErrNoCompany = apperror.NewLocalized(
		apperror.CodeFailedPrecondition,
		i18n.ErrNoCompany,
		"You do not belong to a company yet",
		http.StatusPreconditionFailed,
	)
)
