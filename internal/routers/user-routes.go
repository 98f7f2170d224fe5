package routers

import (
	"github.com/Matches1st/Cord-Disc-Chat/internal/handlers"
	user_handler "github.com/Matches1st/Cord-Disc-Chat/internal/handlers/user-handler"
	"github.com/Matches1st/Cord-Disc-Chat/internal/middleware"
	"github.com/Matches1st/Cord-Disc-Chat/state"
	"github.com/go-chi/chi/v5"
)

func UserRouter(r chi.Router, state *state.AppState) {
	userHandler := user_handler.NewUserHandler(state)

	r.Post("/api/v1/auth/register", handlers.WrapHandler(userHandler.Register))
	r.Post("/api/v1/auth/login", handlers.WrapHandler(userHandler.Login))
	r.Post("/api/v1/auth/guest", handlers.WrapHandler(userHandler.Guest))

	r.Group(func(protected chi.Router) {
		protected.Use(middleware.JWTAuth(state.JwtSecret.Public))
		protected.Get("/api/v1/auth/session", handlers.WrapHandler(userHandler.Session))
		protected.Patch("/api/v1/profile/display-name", handlers.WrapHandler(userHandler.UpdateDisplayName))
		protected.Patch("/api/v1/profile/theme", handlers.WrapHandler(userHandler.UpdateTheme))
	})
}
