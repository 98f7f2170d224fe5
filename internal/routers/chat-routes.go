package routers

import (
	"github.com/Matches1st/Cord-Disc-Chat/internal/handlers"
	chat_handler "github.com/Matches1st/Cord-Disc-Chat/internal/handlers/chat-handler"
	"github.com/Matches1st/Cord-Disc-Chat/internal/middleware"
	"github.com/Matches1st/Cord-Disc-Chat/internal/storage"
	"github.com/Matches1st/Cord-Disc-Chat/state"
	"github.com/go-chi/chi/v5"
)

func ChatRouter(r chi.Router, state *state.AppState, store *storage.Store) {
	chatHandler := chat_handler.NewChatHandler(state, store)

	r.Group(func(protected chi.Router) {
		protected.Use(middleware.JWTAuth(state.JwtSecret.Public))
		protected.Post("/api/v1/rooms/{roomCode}/messages", handlers.WrapHandler(chatHandler.SendMessage))
		protected.Get("/api/v1/rooms/{roomCode}/messages", handlers.WrapHandler(chatHandler.History))
		protected.Post("/api/v1/rooms/{roomCode}/files", handlers.WrapHandler(chatHandler.SendFile))
	})

	// file bodies are fetched by <img>/<a> tags, which cannot set headers
	r.Get("/api/v1/files/{fileId}", handlers.WrapHandler(chatHandler.DownloadFile))
}
