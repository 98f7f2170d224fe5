package routers

import (
	"net/http"

	"github.com/Matches1st/Cord-Disc-Chat/internal/middleware"
	"github.com/Matches1st/Cord-Disc-Chat/internal/storage"
	"github.com/Matches1st/Cord-Disc-Chat/internal/websocket"
	"github.com/Matches1st/Cord-Disc-Chat/state"
	"github.com/go-chi/chi/v5"
)

func NewRouter(state *state.AppState, hub *websocket.Hub, store *storage.Store) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.WithRequestId)
	UserRouter(r, state)
	RoomRouter(r, state)
	ChatRouter(r, state, store)
	LiveRouter(r, state, store, hub)
	HubRouter(r, hub)
	return r
}
