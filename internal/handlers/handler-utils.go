package handlers

import (
	"fmt"
	"net/http"

	"github.com/Matches1st/Cord-Disc-Chat/internal/dtos"
	app_error "github.com/Matches1st/Cord-Disc-Chat/internal/errors"
	"github.com/Matches1st/Cord-Disc-Chat/internal/middleware"
	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog/log"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

type HandlerFunc func(w http.ResponseWriter, r *http.Request) *app_error.AppError

// RequestID reads the id set by the request-id middleware.
func RequestID(r *http.Request) string {
	if id, ok := r.Context().Value(middleware.RequestIdKey).(string); ok {
		return id
	}
	return "unknown"
}

// DecodeAndValidate parses the JSON body into req and runs struct validation.
func DecodeAndValidate(r *http.Request, validate *validator.Validate, req any) *app_error.AppError {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		return app_error.NewAppError(http.StatusBadRequest, "Invalid JSON", "body")
	}
	if err := validate.Struct(req); err != nil {
		return app_error.NewAppError(http.StatusBadRequest, fmt.Sprintf("Invalid fields: %v", err), "validation")
	}
	return nil
}

// WriteData writes the standard success envelope.
func WriteData[T any](w http.ResponseWriter, r *http.Request, status int, message string, data T) {
	writeJSON(w, status, CreateResponse(message, data, RequestID(r)))
}

func WrapHandler(fn HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			log.Error().Err(err).Msg(fmt.Sprintf("error occur, request id: %s", r.Header.Get("X-Request-ID")))
			writeJSON(w, err.Code, map[string]any{
				"message": "Error occur",
				"errors": map[string]any{
					"code":    err.Code,
					"field":   err.Field,
					"message": err.Message,
				},
				"data":       nil,
				"request_id": r.Header.Get("X-Request-ID"),
			})
		}
	}
}

func CreateResponse[T any](message string, data T, requestId string) dtos.Response[T] {
	return dtos.Response[T]{
		Message:   message,
		Data:      data,
		RequestID: requestId,
	}
}
