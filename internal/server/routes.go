package server

import "github.com/go-chi/chi/v5"

// SetupRoutes registers the API routes on r.
func SetupRoutes(r chi.Router, h *Handlers) {
	r.Route("/api", func(r chi.Router) {
		r.Post("/query", h.Query)
		r.Get("/tables", h.Tables)
		r.Get("/tables/{name}", h.Table)
		r.Get("/overview", h.Overview)
		r.Post("/reset", h.Reset)
		r.Get("/export", h.Export)
		r.Get("/events", h.Events)
	})
}
