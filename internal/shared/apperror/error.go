package apperror

import (
	"errors"
	"fmt"
)

type AppError struct {
	Code       string `json:"code"`    // Error tag (e.g., failed-precondition)
	Message    string `json:"message"` // User-facing message
	Key        string `json:"-"`       // Catalog key for Message, empty when not localized
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped original error (optional)
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap implements errors.Unwrap interface for errors.Is/As
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError without wrapping
func New(code, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// NewLocalized creates an AppError whose message is rendered from key in the
// request language. message is the fallback when no translator is present.
func NewLocalized(code, key, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		Key:        key,
		HTTPStatus: httpStatus,
	}
}

// Wrap creates an AppError that wraps an existing error
func Wrap(err error, code, message string, httpStatus int) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// CodeOf returns the tag of the first AppError in err's chain, or CodeInternal.
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}
