package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is the base domain error type.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Cause   error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Cause }

// Error codes carried in AppError.Code.
const (
	CodeAdminNotFound     = "ADMIN_NOT_FOUND"
	CodeIncorrectPassword = "INCORRECT_PASSWORD"
	CodeConflict          = "CONFLICT"
	CodeValidation        = "VALIDATION_ERROR"
	CodeInternal          = "INTERNAL_ERROR"
)

// Standard domain error constructors.

// ErrAdminNotFound is returned when no admin account matches the supplied username.
// It maps to 400, not 404: callers of this API treat it as a failed credential check.
func ErrAdminNotFound(msg string) *AppError {
	return &AppError{Code: CodeAdminNotFound, Message: msg, Status: http.StatusBadRequest}
}

// ErrIncorrectPassword is returned when the password is empty or does not match.
func ErrIncorrectPassword(msg string) *AppError {
	return &AppError{Code: CodeIncorrectPassword, Message: msg, Status: http.StatusBadRequest}
}

func ErrConflict(msg string) *AppError {
	return &AppError{Code: CodeConflict, Message: msg, Status: http.StatusConflict}
}

func ErrValidation(msg string) *AppError {
	return &AppError{Code: CodeValidation, Message: msg, Status: http.StatusBadRequest}
}

func ErrInternal(msg string, cause error) *AppError {
	return &AppError{Code: CodeInternal, Message: msg, Status: http.StatusInternalServerError, Cause: cause}
}

// HasCode reports whether err is an AppError carrying the given code.
func HasCode(err error, code string) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}
