package hub_handler

import (
	"encoding/json"
	"net/http"
	"time"

	app_error "github.com/Matches1st/Cord-Disc-Chat/internal/errors"
	"github.com/Matches1st/Cord-Disc-Chat/internal/handlers"
	"github.com/Matches1st/Cord-Disc-Chat/internal/websocket"
	"github.com/go-chi/chi/v5"
)

type HubHandler struct {
	Hub *websocket.Hub
}

func NewHubHandler(hub *websocket.Hub) *HubHandler {
	return &HubHandler{
		Hub: hub,
	}
}

func (h *HubHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	json.NewEncoder(w).Encode(map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
		"service":   "cord-disc",
	})
}

func (h *HubHandler) HandleGetStats(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	handlers.WriteData(w, r, http.StatusOK, "hub stats", h.Hub.Stats())
	return nil
}

func (h *HubHandler) HandleGetRoomSize(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	roomCode := chi.URLParam(r, "roomCode")
	handlers.WriteData(w, r, http.StatusOK, "room connections", map[string]any{
		"room_code": roomCode,
		"clients":   h.Hub.RoomSize(roomCode),
	})
	return nil
}
