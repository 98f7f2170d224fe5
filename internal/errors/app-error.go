package app_error

import (
	"encoding/json"
	"net/http"
)

type AppError struct {
	Code    int    `json:"-"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func (e AppError) Error() string {
	return e.Message
}

func (e AppError) JSON(w http.ResponseWriter) error {
	return json.NewEncoder(w).Encode(e)
}

func NewAppError(code int, msg, field string) *AppError {
	return &AppError{
		Code:    code,
		Message: msg,
		Field:   field,
	}
}

// Taxonomy helpers. Every failure in this system is one of these five;
// none of them is retried automatically.

func Validation(msg, field string) *AppError {
	return NewAppError(http.StatusBadRequest, msg, field)
}

func NotFound(msg, field string) *AppError {
	return NewAppError(http.StatusNotFound, msg, field)
}

func Conflict(msg, field string) *AppError {
	return NewAppError(http.StatusConflict, msg, field)
}

// Auth always carries a generic message; the underlying backend detail
// stays in the logs.
func Auth(field string) *AppError {
	return NewAppError(http.StatusUnauthorized, "invalid credentials", field)
}

func Upload(msg string) *AppError {
	return NewAppError(http.StatusBadGateway, msg, "upload")
}

func Internal(msg, field string) *AppError {
	return NewAppError(http.StatusInternalServerError, msg, field)
}

func IsNotFound(e *AppError) bool {
	return e != nil && e.Code == http.StatusNotFound
}

func IsConflict(e *AppError) bool {
	return e != nil && e.Code == http.StatusConflict
}
