package routers

import (
	"context"
	"net/http"

	"github.com/Matches1st/Cord-Disc-Chat/internal/dtos/chat_dto"
	"github.com/Matches1st/Cord-Disc-Chat/internal/handlers"
	hub_handler "github.com/Matches1st/Cord-Disc-Chat/internal/handlers/hub-handler"
	room_repo "github.com/Matches1st/Cord-Disc-Chat/internal/repo/room"
	"github.com/Matches1st/Cord-Disc-Chat/internal/storage"
	chat_service "github.com/Matches1st/Cord-Disc-Chat/internal/use-case/chat-case"
	"github.com/Matches1st/Cord-Disc-Chat/internal/websocket"
	"github.com/Matches1st/Cord-Disc-Chat/state"
	"github.com/go-chi/chi/v5"
)

func HubRouter(r chi.Router, wsHub *websocket.Hub) {
	hubHandler := hub_handler.NewHubHandler(wsHub)

	r.Get("/api/v1/health", hubHandler.HandleHealth)
	r.Get("/api/v1/stats", handlers.WrapHandler(hubHandler.HandleGetStats))
	r.Get("/api/v1/rooms/{roomCode}/connections", handlers.WrapHandler(hubHandler.HandleGetRoomSize))
}

// LiveRouter wires the websocket subscription endpoint: token auth, a
// membership gate, and a history snapshot served before append events.
func LiveRouter(r chi.Router, appState *state.AppState, store *storage.Store, wsHub *websocket.Hub) {
	chatService := chat_service.NewChatService(appState, store)
	rooms := room_repo.NewRoomRepo(appState)

	snapshot := func(ctx context.Context, roomCode string) (chat_dto.Event, error) {
		messages, appErr := chatService.Snapshot(ctx, roomCode)
		if appErr != nil {
			return chat_dto.Event{}, appErr
		}
		return chat_dto.Event{Type: chat_dto.EventSnapshot, RoomCode: roomCode, Messages: messages}, nil
	}

	membership := func(ctx context.Context, roomCode, uid string) (bool, error) {
		ok, appErr := rooms.IsMember(ctx, roomCode, uid)
		if appErr != nil {
			return false, appErr
		}
		return ok, nil
	}

	wsHandler := websocket.NewHandler(wsHub, websocket.JWTWebSocketAuth(appState.JwtSecret.Public), snapshot, membership)

	r.Get("/api/v1/rooms/{roomCode}/live", func(w http.ResponseWriter, req *http.Request) {
		wsHandler.ServeRoom(w, req, chi.URLParam(req, "roomCode"))
	})
}
