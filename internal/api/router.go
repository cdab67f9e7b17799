package api

import (
	"garage-spot-service/internal/api/handlers"
	"garage-spot-service/internal/domain"
	"garage-spot-service/internal/ports"
	"garage-spot-service/internal/services"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(
	site domain.SiteConfig,
	repo ports.TruckRepository,
	sessions *services.SessionManager,
	logger *zap.Logger,
) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	truckHandler := &handlers.TruckHandler{Repo: repo, Site: site, Logger: logger}
	sessionHandler := &handlers.SessionHandler{Sessions: sessions, Logger: logger}

	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(logger))

	r.Get("/health", handlers.Health(logger))
	r.Get("/garages", truckHandler.Garages)
	r.Get("/trucks", truckHandler.List)
	r.Get("/layout", truckHandler.Layout)

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", sessionHandler.Create)
		r.Route("/{id}", func(r chi.Router) {
			r.Delete("/", sessionHandler.Delete)
			r.Get("/layout", sessionHandler.Layout)
			r.Post("/garage", sessionHandler.SetGarage)
			r.Post("/drag/start", sessionHandler.DragStart)
			r.Post("/drag/move", sessionHandler.DragMove)
			r.Post("/drag/end", sessionHandler.DragEnd)
			r.Post("/drag/cancel", sessionHandler.DragCancel)
			r.Get("/preview", sessionHandler.Preview)
			r.Get("/changes", sessionHandler.Changes)
			r.Post("/commit", sessionHandler.Commit)
			r.Post("/discard", sessionHandler.Discard)
			r.Post("/refresh", sessionHandler.Refresh)
		})
	})

	return r
}
