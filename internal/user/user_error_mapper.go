package user

import (
	"go-attendance/internal/shared/database"
	usererrors "go-attendance/internal/user/errors"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}
	if database.IsNotFound(err) {
		return usererrors.ErrUserNotFound
	}
	return err
}
