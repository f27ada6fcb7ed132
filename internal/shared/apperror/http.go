package apperror

import (
	"context"
	"errors"
	"net/http"

	"go-attendance/internal/shared/contextutil"

	"github.com/go-playground/validator/v10"
)

type HTTPError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
	Key     string `json:"-"`
}

// ToHTTP converts any error into the wire shape. Unknown errors never leak their text.
func ToHTTP(err error) HTTPError {
	if err == nil {
		return HTTPError{Status: http.StatusOK}
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		err = MapValidationError(validationErrs)
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		status := appErr.HTTPStatus
		if status == 0 {
			status = http.StatusInternalServerError
		}
		return HTTPError{
			Status:  status,
			Code:    appErr.Code,
			Message: appErr.Message,
			Key:     appErr.Key,
		}
	}

	return HTTPError{
		Status:  ErrInternal.HTTPStatus,
		Code:    ErrInternal.Code,
		Message: ErrInternal.Message,
		Key:     ErrInternal.Key,
	}
}

// Localize renders Message in the request language when ctx carries a translator.
func (e HTTPError) Localize(ctx context.Context) HTTPError {
	if e.Key == "" {
		return e
	}
	t, ok := contextutil.GetTranslator(ctx)
	if !ok {
		return e
	}
	// Printers echo unknown keys back unchanged.
	if msg := t.T(ctx, e.Key); msg != "" && msg != e.Key {
		e.Message = msg
	}
	return e
}
