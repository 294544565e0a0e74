// Package handlers provides HTTP handlers for logging advisor activity.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/salesops/advisorpulse/internal/calendar"
	"github.com/salesops/advisorpulse/internal/modules/activity"
)

// Handler handles activity HTTP requests
type Handler struct {
	repo *activity.Repository
	loc  *time.Location
	log  zerolog.Logger
}

// NewHandler creates a new activity handler. loc turns from/to query dates
// into instants.
func NewHandler(repo *activity.Repository, loc *time.Location, log zerolog.Logger) *Handler {
	return &Handler{
		repo: repo,
		loc:  loc,
		log:  log.With().Str("handler", "activity").Logger(),
	}
}

// RegisterRoutes registers activity routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/activity/events", func(r chi.Router) {
		r.Get("/", h.HandleList)
		r.Post("/", h.HandleRecord)
		r.Get("/{id}", h.HandleGet)
		r.Post("/{id}/void", h.HandleVoid)
	})
}

// HandleRecord handles POST /api/activity/events
func (h *Handler) HandleRecord(w http.ResponseWriter, r *http.Request) {
	var request activity.NewEvent
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	event, err := h.repo.Record(r.Context(), request)
	if err != nil {
		h.writeRepoError(w, err, "Failed to record activity")
		return
	}

	h.writeJSON(w, http.StatusCreated, map[string]interface{}{"data": event})
}

// HandleGet handles GET /api/activity/events/{id}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	event, err := h.repo.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeRepoError(w, err, "Failed to get activity")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"data": event})
}

// HandleVoid handles POST /api/activity/events/{id}/void
func (h *Handler) HandleVoid(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.repo.Void(r.Context(), id); err != nil {
		h.writeRepoError(w, err, "Failed to void activity")
		return
	}

	event, err := h.repo.Get(r.Context(), id)
	if err != nil {
		h.writeRepoError(w, err, "Failed to get activity")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"data": event})
}

// HandleList handles GET /api/activity/events?advisor_id=&from=&to=&include_voided=&limit=
// from and to are inclusive local dates (YYYY-MM-DD).
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := activity.ListFilter{AdvisorID: q.Get("advisor_id")}

	if raw := q.Get("from"); raw != "" {
		from, err := calendar.Parse(raw)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "Invalid from date: "+raw)
			return
		}
		filter.From = from.StartIn(h.loc)
	}
	if raw := q.Get("to"); raw != "" {
		to, err := calendar.Parse(raw)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "Invalid to date: "+raw)
			return
		}
		filter.To = to.AddDays(1).StartIn(h.loc)
	}
	if raw := q.Get("include_voided"); raw != "" {
		includeVoided, err := strconv.ParseBool(raw)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "Invalid include_voided: "+raw)
			return
		}
		filter.IncludeVoided = includeVoided
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			h.writeError(w, http.StatusBadRequest, "Invalid limit: "+raw)
			return
		}
		filter.Limit = limit
	}

	events, err := h.repo.List(r.Context(), filter)
	if err != nil {
		h.writeRepoError(w, err, "Failed to list activity")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": events,
		"metadata": map[string]interface{}{
			"count": len(events),
		},
	})
}

func (h *Handler) writeRepoError(w http.ResponseWriter, err error, message string) {
	switch {
	case errors.Is(err, activity.ErrNotFound):
		h.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, activity.ErrInvalidMetric), errors.Is(err, activity.ErrInvalidValue):
		h.writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.log.Error().Err(err).Msg(message)
		h.writeError(w, http.StatusInternalServerError, message)
	}
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
