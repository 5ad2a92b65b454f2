package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/tasktracker/internal/api/middleware"
)

// RouterDeps holds everything NewRouter wires into the routes.
type RouterDeps struct {
	AuthHandler    *AuthHandler
	TaskHandler    *TaskHandler
	HealthHandler  *HealthHandler
	AuthMiddleware *middleware.AuthMiddleware
	Logger         *slog.Logger
}

// NewRouter builds the HTTP routes.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewTraceMiddleware(deps.Logger))
	r.Use(chimiddleware.Recoverer)

	r.Get("/health", deps.HealthHandler.Health)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", deps.AuthHandler.Register)
		r.Post("/auth/token", deps.AuthHandler.Token)

		r.Group(func(r chi.Router) {
			r.Use(deps.AuthMiddleware.Authenticate)

			r.Get("/users/me", deps.AuthHandler.Me)

			r.Post("/tasks", deps.TaskHandler.Create)
			r.Get("/tasks", deps.TaskHandler.List)
			r.Get("/tasks/{id}", deps.TaskHandler.Get)
			r.Patch("/tasks/{id}", deps.TaskHandler.Update)
			r.Delete("/tasks/{id}", deps.TaskHandler.Delete)
			r.Put("/tasks/{id}/reminder", deps.TaskHandler.SetReminder)
		})
	})

	return r
}
