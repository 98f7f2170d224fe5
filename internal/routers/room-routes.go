package routers

import (
	"github.com/Matches1st/Cord-Disc-Chat/internal/handlers"
	presence_handler "github.com/Matches1st/Cord-Disc-Chat/internal/handlers/presence-handler"
	room_handler "github.com/Matches1st/Cord-Disc-Chat/internal/handlers/room-handler"
	"github.com/Matches1st/Cord-Disc-Chat/internal/middleware"
	"github.com/Matches1st/Cord-Disc-Chat/state"
	"github.com/go-chi/chi/v5"
)

func RoomRouter(r chi.Router, state *state.AppState) {
	roomHandler := room_handler.NewRoomHandler(state)
	presenceHandler := presence_handler.NewPresenceHandler(state)

	r.Group(func(protected chi.Router) {
		protected.Use(middleware.JWTAuth(state.JwtSecret.Public))
		protected.Post("/api/v1/rooms", handlers.WrapHandler(roomHandler.CreateRoom))
		protected.Post("/api/v1/rooms/join", handlers.WrapHandler(roomHandler.JoinRoom))
		protected.Get("/api/v1/rooms", handlers.WrapHandler(roomHandler.ListRooms))
		protected.Get("/api/v1/rooms/{roomCode}", handlers.WrapHandler(roomHandler.GetRoom))

		protected.Post("/api/v1/rooms/{roomCode}/presence", handlers.WrapHandler(presenceHandler.Heartbeat))
		protected.Get("/api/v1/rooms/{roomCode}/presence", handlers.WrapHandler(presenceHandler.Roster))
	})
}
