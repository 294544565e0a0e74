// Package handlers provides HTTP handlers for scoring configuration.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/salesops/advisorpulse/internal/modules/scoring"
)

// Handler handles scoring configuration HTTP requests
type Handler struct {
	scores   *scoring.MetricScoreRepository
	minimums *scoring.MinimumsRepository
	log      zerolog.Logger
}

// NewHandler creates a new scoring handler
func NewHandler(scores *scoring.MetricScoreRepository, minimums *scoring.MinimumsRepository, log zerolog.Logger) *Handler {
	return &Handler{
		scores:   scores,
		minimums: minimums,
		log:      log.With().Str("handler", "scoring").Logger(),
	}
}

// RegisterRoutes registers scoring routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/scoring", func(r chi.Router) {
		r.Get("/metrics", h.HandleListMetrics)
		r.Put("/metrics/{metric}", h.HandleSetMetric)

		r.Get("/minimums/{ownerID}", h.HandleGetMinimums)
		r.Put("/minimums/{ownerID}/{metric}", h.HandleSetMinimum)
		r.Delete("/minimums/{ownerID}/{metric}", h.HandleClearMinimum)
	})
}

// HandleListMetrics handles GET /api/scoring/metrics
func (h *Handler) HandleListMetrics(w http.ResponseWriter, r *http.Request) {
	scores, err := h.scores.ListScores(r.Context())
	if err != nil {
		h.writeRepoError(w, err, "Failed to list metric scores")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"data": scores})
}

// HandleSetMetric handles PUT /api/scoring/metrics/{metric}
func (h *Handler) HandleSetMetric(w http.ResponseWriter, r *http.Request) {
	metric := chi.URLParam(r, "metric")

	var body struct {
		PointsPerUnit *int `json:"points_per_unit"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.PointsPerUnit == nil {
		h.writeError(w, http.StatusBadRequest, "Request body must contain points_per_unit")
		return
	}

	if err := h.scores.SetScore(r.Context(), metric, *body.PointsPerUnit); err != nil {
		h.writeRepoError(w, err, "Failed to set metric score")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{"metric_key": metric, "points_per_unit": *body.PointsPerUnit},
	})
}

// HandleGetMinimums handles GET /api/scoring/minimums/{ownerID}
func (h *Handler) HandleGetMinimums(w http.ResponseWriter, r *http.Request) {
	minimums, err := h.minimums.Describe(r.Context(), chi.URLParam(r, "ownerID"))
	if err != nil {
		h.writeRepoError(w, err, "Failed to get weekly minimums")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"data": minimums})
}

// HandleSetMinimum handles PUT /api/scoring/minimums/{ownerID}/{metric}
func (h *Handler) HandleSetMinimum(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Minimum *int `json:"minimum"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Minimum == nil {
		h.writeError(w, http.StatusBadRequest, "Request body must contain minimum")
		return
	}

	override := scoring.MinimumOverride{
		OwnerID:   chi.URLParam(r, "ownerID"),
		MetricKey: chi.URLParam(r, "metric"),
		Minimum:   *body.Minimum,
	}
	if err := h.minimums.SetOverride(r.Context(), override); err != nil {
		h.writeRepoError(w, err, "Failed to set weekly minimum")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{"data": override})
}

// HandleClearMinimum handles DELETE /api/scoring/minimums/{ownerID}/{metric}
func (h *Handler) HandleClearMinimum(w http.ResponseWriter, r *http.Request) {
	err := h.minimums.ClearOverride(r.Context(), chi.URLParam(r, "ownerID"), chi.URLParam(r, "metric"))
	if err != nil {
		h.writeRepoError(w, err, "Failed to clear weekly minimum")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeRepoError(w http.ResponseWriter, err error, message string) {
	if errors.Is(err, scoring.ErrInvalidMetric) || errors.Is(err, scoring.ErrInvalidValue) {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.log.Error().Err(err).Msg(message)
	h.writeError(w, http.StatusInternalServerError, message)
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
