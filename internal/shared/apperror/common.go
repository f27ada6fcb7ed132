package apperror

import (
	"net/http"

	"go-attendance/internal/shared/i18n"
)

var (
	ErrUnauthenticated = NewLocalized(
		CodeUnauthenticated,
		i18n.ErrUnauthenticated,
		"Sign-in is required",
		http.StatusUnauthorized,
	)

	ErrInvalidArgument = NewLocalized(
		CodeInvalidArgument,
		i18n.ErrInvalidArgument,
		"The provided input is invalid",
		http.StatusBadRequest,
	)

	ErrPermissionDenied = NewLocalized(
		CodePermissionDenied,
		i18n.ErrPermissionDenied,
		"Administrator privileges are required",
		http.StatusForbidden,
	)

	ErrNotFound = NewLocalized(
		CodeNotFound,
		i18n.ErrNotFound,
		"Resource not found",
		http.StatusNotFound,
	)

	ErrInternal = NewLocalized(
		CodeInternal,
		i18n.ErrInternal,
		"An unexpected error occurred",
		http.StatusInternalServerError,
	)
)

func RequiredField(field string) *AppError {
	return New(CodeInvalidArgument, field+" is required", http.StatusBadRequest)
}

func InvalidField(field string) *AppError {
	return New(CodeInvalidArgument, field+" is invalid", http.StatusBadRequest)
}
