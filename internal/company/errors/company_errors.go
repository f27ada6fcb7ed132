package companyerrors

import (
	"net/http"

	"go-attendance/internal/shared/apperror"
	"go-attendance/internal/shared/i18n"
)

var (
	ErrCompanyNotFound = apperror.NewLocalized(
		apperror.CodeNotFound,
		i18n.ErrCompanyNotFound,
		"Company not found",
		http.StatusNotFound,
	)

	ErrInviteCodeNotFound = apperror.NewLocalized(
		apperror.CodeNotFound,
		i18n.ErrInviteCodeNotFound,
		"Invalid invite code",
		http.StatusNotFound,
	)

	ErrInvalidCompanyID = apperror.NewLocalized(
		apperror.CodeInvalidArgument,
		i18n.ErrInvalidCompanyID,
		"Company ID is not specified",
		http.StatusBadRequest,
	)
)
