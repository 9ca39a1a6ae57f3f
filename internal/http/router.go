// Package http wires the chi router for the OKR read API.
package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/okrhub/okrhub/internal/http/handler"
	mw "github.com/okrhub/okrhub/internal/http/middleware"
)

// NewRouter creates and configures the chi router with all middleware
// and routes.
func NewRouter(server *handler.Server, authMiddleware *mw.Auth) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoint (no auth required)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"status":"ok"}`)); err != nil {
			slog.ErrorContext(r.Context(), "failed to write health check response", "error", err)
		}
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(authMiddleware.Validate)

		r.Get("/objectives/{objectiveID}", server.GetObjective)
		r.Get("/objectives/{objectiveID}/tasks", server.ListObjectiveTasks)
		r.Get("/dashboard/critical", server.GetCriticalObjectives)
		r.Get("/profiles", server.ListProfiles)
	})

	return r
}
