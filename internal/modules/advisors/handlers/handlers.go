// Package handlers provides HTTP handlers for the advisor roster.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/salesops/advisorpulse/internal/modules/advisors"
)

// Handler handles roster HTTP requests
type Handler struct {
	repo *advisors.Repository
	log  zerolog.Logger
}

// NewHandler creates a new roster handler
func NewHandler(repo *advisors.Repository, log zerolog.Logger) *Handler {
	return &Handler{
		repo: repo,
		log:  log.With().Str("handler", "advisors").Logger(),
	}
}

// RegisterRoutes registers roster routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/advisors", func(r chi.Router) {
		r.Get("/", h.HandleList)
		r.Get("/{id}", h.HandleGet)
		r.Put("/{id}", h.HandleUpsert)
	})
}

// HandleList handles GET /api/advisors?owner_id=
// Without owner_id the full roster is returned.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	var (
		list []advisors.Advisor
		err  error
	)
	if ownerID := r.URL.Query().Get("owner_id"); ownerID != "" {
		list, err = h.repo.ListByOwner(r.Context(), ownerID)
	} else {
		list, err = h.repo.ListAll(r.Context())
	}
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list advisors")
		h.writeError(w, http.StatusInternalServerError, "Failed to list advisors")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"data": list})
}

// HandleGet handles GET /api/advisors/{id}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	advisor, err := h.repo.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, advisors.ErrNotFound) {
		h.writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to get advisor")
		h.writeError(w, http.StatusInternalServerError, "Failed to get advisor")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"data": advisor})
}

// HandleUpsert handles PUT /api/advisors/{id}
func (h *Handler) HandleUpsert(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name    string `json:"name"`
		OwnerID string `json:"owner_id"`
		Role    string `json:"role"`
		Active  *bool  `json:"active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	advisor := advisors.Advisor{
		ID:      chi.URLParam(r, "id"),
		Name:    body.Name,
		OwnerID: body.OwnerID,
		Role:    body.Role,
		Active:  body.Active == nil || *body.Active,
	}
	if err := h.repo.Upsert(r.Context(), advisor); err != nil {
		if errors.Is(err, advisors.ErrInvalidValue) {
			h.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.log.Error().Err(err).Msg("Failed to save advisor")
		h.writeError(w, http.StatusInternalServerError, "Failed to save advisor")
		return
	}

	saved, err := h.repo.Get(r.Context(), advisor.ID)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to reload advisor")
		h.writeError(w, http.StatusInternalServerError, "Failed to reload advisor")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"data": saved})
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
