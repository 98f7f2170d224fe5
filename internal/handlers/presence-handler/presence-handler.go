package presence_handler

import (
	"encoding/json"
	"net/http"

	"github.com/Matches1st/Cord-Disc-Chat/internal/dtos/presence_dto"
	"github.com/Matches1st/Cord-Disc-Chat/internal/entity"
	app_error "github.com/Matches1st/Cord-Disc-Chat/internal/errors"
	"github.com/Matches1st/Cord-Disc-Chat/internal/handlers"
	"github.com/Matches1st/Cord-Disc-Chat/internal/middleware"
	room_repo "github.com/Matches1st/Cord-Disc-Chat/internal/repo/room"
	presence_service "github.com/Matches1st/Cord-Disc-Chat/internal/use-case/presence-case"
	"github.com/Matches1st/Cord-Disc-Chat/state"
	"github.com/go-chi/chi/v5"
)

type PresenceHandler struct {
	State   *state.AppState
	Rooms   room_repo.RoomRepoContract
	Service presence_service.PresenceServiceContract
}

func NewPresenceHandler(state *state.AppState) *PresenceHandler {
	return &PresenceHandler{
		State:   state,
		Rooms:   room_repo.NewRoomRepo(state),
		Service: presence_service.NewPresenceService(state.Redis),
	}
}

func (h *PresenceHandler) requireMember(r *http.Request, roomCode, uid string) *app_error.AppError {
	ok, err := h.Rooms.IsMember(r.Context(), roomCode, uid)
	if err != nil {
		return err
	}
	if !ok {
		return app_error.NewAppError(http.StatusForbidden, "not a member of this room", "room")
	}
	return nil
}

// Heartbeat refreshes the caller's presence record in the room. Clients
// post this on an interval; liveness is derived from recency at read time.
func (h *PresenceHandler) Heartbeat(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		return app_error.Auth("auth")
	}

	roomCode := chi.URLParam(r, "roomCode")
	if err := h.requireMember(r, roomCode, claims.Sub); err != nil {
		return err
	}

	var req presence_dto.HeartbeatRequest
	defer r.Body.Close()
	// body is optional: a bare POST still counts as a heartbeat
	_ = json.NewDecoder(r.Body).Decode(&req)

	record := entity.MembershipRecord{
		UID:      claims.Sub,
		Username: claims.Username,
		PhotoURL: req.PhotoURL,
	}
	if err := h.Service.Heartbeat(r.Context(), roomCode, record); err != nil {
		return err
	}

	handlers.WriteData(w, r, http.StatusOK, "heartbeat recorded", struct{}{})
	return nil
}

func (h *PresenceHandler) Roster(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		return app_error.Auth("auth")
	}

	roomCode := chi.URLParam(r, "roomCode")
	if err := h.requireMember(r, roomCode, claims.Sub); err != nil {
		return err
	}

	resp, err := h.Service.Roster(r.Context(), roomCode)
	if err != nil {
		return err
	}

	handlers.WriteData(w, r, http.StatusOK, "roster fetched", *resp)
	return nil
}
