package invitecodeerrors

import (
	"net/http"

	"go-attendance/internal/shared/apperror"
	"go-attendance/internal/shared/i18n"
)

var (
	ErrExhausted = apperror.NewLocalized(
		apperror.CodeResourceExhausted,
		i18n.ErrInviteCodeExhaust,
		"Could not allocate an invite code, please try again later",
		http.StatusTooManyRequests,
	)
)
