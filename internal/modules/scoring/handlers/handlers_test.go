package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salesops/advisorpulse/internal/modules/scoring"
	testingutil "github.com/salesops/advisorpulse/internal/testing"
)

func newTestRouter(t *testing.T) chi.Router {
	t.Helper()
	db := testingutil.NewMemoryDB(t, "sales")
	handler := NewHandler(
		scoring.NewMetricScoreRepository(db, zerolog.Nop()),
		scoring.NewMinimumsRepository(db, zerolog.Nop()),
		zerolog.Nop(),
	)
	router := chi.NewRouter()
	handler.RegisterRoutes(router)
	return router
}

func TestScoringRoutes(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name           string
		method         string
		path           string
		body           string
		expectedStatus int
	}{
		{"list metrics", http.MethodGet, "/api/scoring/metrics", "", http.StatusOK},
		{"set metric", http.MethodPut, "/api/scoring/metrics/calls", `{"points_per_unit":3}`, http.StatusOK},
		{"set unknown metric", http.MethodPut, "/api/scoring/metrics/naps", `{"points_per_unit":3}`, http.StatusBadRequest},
		{"set metric missing body", http.MethodPut, "/api/scoring/metrics/calls", `{}`, http.StatusBadRequest},
		{"get minimums", http.MethodGet, "/api/scoring/minimums/owner-1", "", http.StatusOK},
		{"set minimum", http.MethodPut, "/api/scoring/minimums/owner-1/calls", `{"minimum":40}`, http.StatusOK},
		{"set negative minimum", http.MethodPut, "/api/scoring/minimums/owner-1/calls", `{"minimum":-1}`, http.StatusBadRequest},
		{"clear minimum", http.MethodDelete, "/api/scoring/minimums/owner-1/calls", "", http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
		})
	}
}

func TestGetMinimums_ReflectsOverride(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPut, "/api/scoring/minimums/owner-1/meetings_set", strings.NewReader(`{"minimum":0}`))
	router.ServeHTTP(httptest.NewRecorder(), req)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/scoring/minimums/owner-1", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Data []scoring.ResolvedMinimum `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	for _, m := range response.Data {
		if m.MetricKey == "meetings_set" {
			assert.Equal(t, 0, m.Minimum)
			assert.True(t, m.Overridden)
		}
	}
}
