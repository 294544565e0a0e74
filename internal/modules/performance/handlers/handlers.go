// Package handlers provides HTTP handlers for advisor and team dashboards.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/salesops/advisorpulse/internal/modules/performance"
)

// Handler handles performance HTTP requests
type Handler struct {
	service *performance.Service
	log     zerolog.Logger
}

// NewHandler creates a new performance handler
func NewHandler(service *performance.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "performance").Logger(),
	}
}

// RegisterRoutes registers performance routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/performance", func(r chi.Router) {
		r.Get("/advisors/{advisorID}", h.HandleAdvisorReport)

		r.Route("/teams/{ownerID}", func(r chi.Router) {
			r.Get("/", h.HandleTeamReport)
			r.Get("/coaching", h.HandleCoaching)
			r.Get("/alerts", h.HandleAlerts)
		})
	})
}

// HandleAdvisorReport handles GET /api/performance/advisors/{advisorID}?week=YYYY-MM-DD
func (h *Handler) HandleAdvisorReport(w http.ResponseWriter, r *http.Request) {
	advisorID := chi.URLParam(r, "advisorID")

	report, err := h.service.AdvisorReport(r.Context(), advisorID, r.URL.Query().Get("week"))
	if err != nil {
		if errors.Is(err, performance.ErrAdvisorNotFound) {
			h.writeError(w, http.StatusNotFound, "Advisor not found: "+advisorID)
			return
		}
		h.log.Error().Err(err).Str("advisor_id", advisorID).Msg("Failed to build advisor report")
		h.writeError(w, http.StatusInternalServerError, "Failed to build advisor report")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": report,
		"metadata": map[string]interface{}{
			"week_start": report.Week.WeekStart,
			"today":      report.Today,
		},
	})
}

// HandleTeamReport handles GET /api/performance/teams/{ownerID}?week=
func (h *Handler) HandleTeamReport(w http.ResponseWriter, r *http.Request) {
	report, ok := h.teamReport(w, r)
	if !ok {
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": report,
		"metadata": map[string]interface{}{
			"week_start": report.Week.WeekStart,
			"advisors":   len(report.Members),
		},
	})
}

// HandleCoaching handles GET /api/performance/teams/{ownerID}/coaching?week=
func (h *Handler) HandleCoaching(w http.ResponseWriter, r *http.Request) {
	ownerID := chi.URLParam(r, "ownerID")
	anchor := r.URL.Query().Get("week")

	summary, err := h.service.Coaching(r.Context(), ownerID, anchor)
	if err != nil {
		h.log.Error().Err(err).Str("owner_id", ownerID).Msg("Failed to build coaching queue")
		h.writeError(w, http.StatusInternalServerError, "Failed to build coaching queue")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": summary,
		"metadata": map[string]interface{}{
			"week_start": h.service.Week(anchor).WeekStart,
		},
	})
}

// HandleAlerts handles GET /api/performance/teams/{ownerID}/alerts?week=
func (h *Handler) HandleAlerts(w http.ResponseWriter, r *http.Request) {
	ownerID := chi.URLParam(r, "ownerID")
	anchor := r.URL.Query().Get("week")

	alerts, err := h.service.Alerts(r.Context(), ownerID, anchor)
	if err != nil {
		h.log.Error().Err(err).Str("owner_id", ownerID).Msg("Failed to build team alerts")
		h.writeError(w, http.StatusInternalServerError, "Failed to build team alerts")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": alerts,
		"metadata": map[string]interface{}{
			"week_start": h.service.Week(anchor).WeekStart,
			"count":      len(alerts),
		},
	})
}

func (h *Handler) teamReport(w http.ResponseWriter, r *http.Request) (*performance.TeamReport, bool) {
	ownerID := chi.URLParam(r, "ownerID")

	report, err := h.service.TeamReport(r.Context(), ownerID, r.URL.Query().Get("week"))
	if err != nil {
		h.log.Error().Err(err).Str("owner_id", ownerID).Msg("Failed to build team report")
		h.writeError(w, http.StatusInternalServerError, "Failed to build team report")
		return nil, false
	}
	return report, true
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeError writes an error response
func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{
		"error": message,
	})
}
