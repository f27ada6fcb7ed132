package accounterrors

import (
	"net/http"

	"go-attendance/internal/shared/apperror"
	"go-attendance/internal/shared/i18n"
)

var (
	ErrAlreadyInCompany = apperror.NewLocalized(
		apperror.CodeFailedPrecondition,
		i18n.ErrAlreadyInCompany,
		"You already belong to a company",
		http.StatusPreconditionFailed,
	)

	ErrMembersRemain = apperror.NewLocalized(
		apperror.CodeFailedPrecondition,
		i18n.ErrMembersRemain,
		"Other members remain in the company",
		http.StatusPreconditionFailed,
	)

	ErrCannotRemoveSelf = apperror.NewLocalized(
		apperror.CodeFailedPrecondition,
		i18n.ErrCannotRemoveSelf,
		"Administrators cannot remove themselves",
		http.StatusPreconditionFailed,
	)

	ErrNotSameCompany = apperror.NewLocalized(
		apperror.CodePermissionDenied,
		i18n.ErrNotSameCompany,
		"The member does not belong to your company",
		http.StatusForbidden,
	)

	ErrTeardownIncomplete = apperror.NewLocalized(
		apperror.CodeInternal,
		i18n.ErrTeardownIncomplete,
		"The company was deleted but the sign-in account could not be removed",
		http.StatusInternalServerError,
	)

	ErrMemberRemovalFailed = apperror.NewLocalized(
		apperror.CodeInternal,
		i18n.ErrMemberRemoval,
		"An error occurred while removing the member",
		http.StatusInternalServerError,
	)
)
