package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter mounts the REST API on a chi router
func NewRouter(h *Handlers) http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.Health)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/validate", h.Validate)
		r.Post("/resolve", h.Resolve)
		r.Post("/filename", h.Filename)
		r.Get("/filesize", h.FileSize)
		r.Post("/downloads", h.Download)
	})

	return r
}
