package user_handler

import (
	"net/http"

	"github.com/Matches1st/Cord-Disc-Chat/internal/dtos/user_dto"
	app_error "github.com/Matches1st/Cord-Disc-Chat/internal/errors"
	"github.com/Matches1st/Cord-Disc-Chat/internal/handlers"
	"github.com/Matches1st/Cord-Disc-Chat/internal/middleware"
	user_service "github.com/Matches1st/Cord-Disc-Chat/internal/use-case/user-case"
	"github.com/Matches1st/Cord-Disc-Chat/state"
	"github.com/go-playground/validator/v10"
)

type UserHandler struct {
	State    *state.AppState
	Validate *validator.Validate
	Service  user_service.UserServiceContract
}

func NewUserHandler(state *state.AppState) *UserHandler {
	validate := validator.New()
	_ = validate.RegisterValidation("themeval", user_dto.ThemeValidator)
	return &UserHandler{
		State:    state,
		Validate: validate,
		Service:  user_service.NewUserService(state),
	}
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	var req user_dto.RegisterRequest
	if err := handlers.DecodeAndValidate(r, h.Validate, &req); err != nil {
		return err
	}

	resp, err := h.Service.Register(r.Context(), req)
	if err != nil {
		return err
	}

	handlers.WriteData(w, r, http.StatusCreated, "registered", *resp)
	return nil
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	var req user_dto.LoginRequest
	if err := handlers.DecodeAndValidate(r, h.Validate, &req); err != nil {
		return err
	}

	resp, err := h.Service.Login(r.Context(), req)
	if err != nil {
		return err
	}

	handlers.WriteData(w, r, http.StatusOK, "logged in", *resp)
	return nil
}

func (h *UserHandler) Guest(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	var req user_dto.GuestRequest
	if err := handlers.DecodeAndValidate(r, h.Validate, &req); err != nil {
		return err
	}

	resp, err := h.Service.Guest(r.Context(), req)
	if err != nil {
		return err
	}

	handlers.WriteData(w, r, http.StatusCreated, "guest session created", *resp)
	return nil
}

// Session resolves the caller's profile, creating the identity row on first
// sight of a valid token.
func (h *UserHandler) Session(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		return app_error.Auth("auth")
	}

	resp, err := h.Service.Session(r.Context(), claims.Sub, claims.Username, claims.IsGuest)
	if err != nil {
		return err
	}

	handlers.WriteData(w, r, http.StatusOK, "session resolved", *resp)
	return nil
}

func (h *UserHandler) UpdateDisplayName(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		return app_error.Auth("auth")
	}

	var req user_dto.UpdateDisplayNameRequest
	if err := handlers.DecodeAndValidate(r, h.Validate, &req); err != nil {
		return err
	}

	if err := h.Service.UpdateDisplayName(r.Context(), claims.Sub, req); err != nil {
		return err
	}

	handlers.WriteData(w, r, http.StatusOK, "display name updated", req)
	return nil
}

func (h *UserHandler) UpdateTheme(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		return app_error.Auth("auth")
	}

	var req user_dto.UpdateThemeRequest
	if err := handlers.DecodeAndValidate(r, h.Validate, &req); err != nil {
		return err
	}

	if err := h.Service.UpdateTheme(r.Context(), claims.Sub, req); err != nil {
		return err
	}

	handlers.WriteData(w, r, http.StatusOK, "theme updated", req)
	return nil
}
