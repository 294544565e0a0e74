package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all snapshot routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/snapshots", func(r chi.Router) {
		r.Get("/{weekStart}", h.HandleListWeek)
		r.Get("/{weekStart}/{advisorID}", h.HandleGet)
	})
}
