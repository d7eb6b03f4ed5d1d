package faq

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers FAQ routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/ask", h.Ask)
		r.Post("/ask/export", h.Export)
		r.Get("/schemes", h.ListSchemes)
		r.Post("/index/reload", h.ReloadIndex)
	})
}
