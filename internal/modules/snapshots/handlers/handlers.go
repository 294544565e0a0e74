// Package handlers provides HTTP handlers for stored weekly snapshots.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/salesops/advisorpulse/internal/calendar"
	"github.com/salesops/advisorpulse/internal/modules/snapshots"
)

// Handler handles snapshot HTTP requests
type Handler struct {
	store *snapshots.Store
	log   zerolog.Logger
}

// NewHandler creates a new snapshot handler
func NewHandler(store *snapshots.Store, log zerolog.Logger) *Handler {
	return &Handler{
		store: store,
		log:   log.With().Str("handler", "snapshots").Logger(),
	}
}

// HandleListWeek handles GET /api/snapshots/{weekStart}
func (h *Handler) HandleListWeek(w http.ResponseWriter, r *http.Request) {
	weekStart, ok := h.parseWeek(w, r)
	if !ok {
		return
	}

	list, err := h.store.ListWeek(r.Context(), weekStart)
	if err != nil {
		h.log.Error().Err(err).Str("week_start", weekStart.String()).Msg("Failed to list snapshots")
		h.writeError(w, http.StatusInternalServerError, "Failed to list snapshots")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": list,
		"metadata": map[string]interface{}{
			"week_start": weekStart,
			"count":      len(list),
			"timestamp":  time.Now().Format(time.RFC3339),
		},
	})
}

// HandleGet handles GET /api/snapshots/{weekStart}/{advisorID}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	weekStart, ok := h.parseWeek(w, r)
	if !ok {
		return
	}
	advisorID := chi.URLParam(r, "advisorID")

	stats, err := h.store.Get(r.Context(), advisorID, weekStart)
	if err != nil {
		h.log.Error().Err(err).Str("advisor_id", advisorID).Msg("Failed to get snapshot")
		h.writeError(w, http.StatusInternalServerError, "Failed to get snapshot")
		return
	}
	if stats == nil {
		h.writeError(w, http.StatusNotFound, "No snapshot for "+advisorID+" in week "+weekStart.String())
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{"data": stats})
}

func (h *Handler) parseWeek(w http.ResponseWriter, r *http.Request) (calendar.Date, bool) {
	raw := chi.URLParam(r, "weekStart")
	weekStart, err := calendar.Parse(raw)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid week start: "+raw)
		return calendar.Date{}, false
	}
	if weekStart.Weekday() != time.Monday {
		h.writeError(w, http.StatusBadRequest, "Week start must be a Monday: "+raw)
		return calendar.Date{}, false
	}
	return weekStart, true
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
