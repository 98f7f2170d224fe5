package room_handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Matches1st/Cord-Disc-Chat/internal/dtos/room_dto"
	app_error "github.com/Matches1st/Cord-Disc-Chat/internal/errors"
	"github.com/Matches1st/Cord-Disc-Chat/internal/handlers"
	"github.com/Matches1st/Cord-Disc-Chat/internal/middleware"
	room_service "github.com/Matches1st/Cord-Disc-Chat/internal/use-case/room-case"
	"github.com/Matches1st/Cord-Disc-Chat/state"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type RoomHandler struct {
	State    *state.AppState
	Validate *validator.Validate
	Service  room_service.RoomServiceContract
}

func NewRoomHandler(state *state.AppState) *RoomHandler {
	validate := validator.New()
	_ = validate.RegisterValidation("roomcode", room_dto.RoomCodeValidator)
	return &RoomHandler{
		State:    state,
		Validate: validate,
		Service:  room_service.NewRoomService(state),
	}
}

func (h *RoomHandler) CreateRoom(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		return app_error.Auth("auth")
	}

	var req room_dto.CreateRoomRequest
	if err := handlers.DecodeAndValidate(r, h.Validate, &req); err != nil {
		return err
	}

	resp, err := h.Service.Create(r.Context(), req, claims.Sub)
	if err != nil {
		return err
	}

	handlers.WriteData(w, r, http.StatusCreated, "room created", *resp)
	return nil
}

func (h *RoomHandler) JoinRoom(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		return app_error.Auth("auth")
	}

	var req room_dto.JoinRoomRequest
	defer r.Body.Close()

	// codes are entered by hand, so normalize before validating
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return app_error.NewAppError(http.StatusBadRequest, "Invalid JSON", "body")
	}
	req.Code = strings.ToUpper(strings.TrimSpace(req.Code))
	if err := h.Validate.Struct(req); err != nil {
		return app_error.Validation("room code must be 6 characters", "code")
	}

	resp, err := h.Service.Join(r.Context(), req, claims.Sub)
	if err != nil {
		return err
	}

	handlers.WriteData(w, r, http.StatusOK, "room joined", *resp)
	return nil
}

func (h *RoomHandler) ListRooms(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		return app_error.Auth("auth")
	}

	resp, err := h.Service.List(r.Context(), claims.Sub)
	if err != nil {
		return err
	}

	handlers.WriteData(w, r, http.StatusOK, "rooms listed", *resp)
	return nil
}

func (h *RoomHandler) GetRoom(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		return app_error.Auth("auth")
	}

	code := chi.URLParam(r, "roomCode")

	resp, err := h.Service.Get(r.Context(), code, claims.Sub)
	if err != nil {
		return err
	}

	handlers.WriteData(w, r, http.StatusOK, "room found", *resp)
	return nil
}
