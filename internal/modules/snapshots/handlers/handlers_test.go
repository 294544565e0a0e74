package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salesops/advisorpulse/internal/calendar"
	"github.com/salesops/advisorpulse/internal/modules/performance"
	"github.com/salesops/advisorpulse/internal/modules/snapshots"
	testingutil "github.com/salesops/advisorpulse/internal/testing"
)

var week = calendar.MustParse("2024-03-04")

func setupTestHandler(t *testing.T) *Handler {
	t.Helper()
	store := snapshots.NewStore(testingutil.NewMemoryDB(t, "cache"), zerolog.Nop())
	for _, s := range []performance.AdvisorWeekStats{
		{AdvisorID: "adv-2", WeekPoints: 40, Status: performance.StatusAtRisk},
		{AdvisorID: "adv-1", WeekPoints: 130, Status: performance.StatusCompleted},
	} {
		require.NoError(t, store.Put(context.Background(), week, s))
	}
	return NewHandler(store, zerolog.Nop())
}

func serve(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	router := chi.NewRouter()
	setupTestHandler(t).RegisterRoutes(router)

	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleListWeek(t *testing.T) {
	w := serve(t, "/api/snapshots/2024-03-04")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var response struct {
		Data []performance.AdvisorWeekStats `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response.Data, 2)
	assert.Equal(t, "adv-1", response.Data[0].AdvisorID)
	assert.Equal(t, week, response.Data[0].WeekStart)
}

func TestHandleGet(t *testing.T) {
	w := serve(t, "/api/snapshots/2024-03-04/adv-2")
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Data performance.AdvisorWeekStats `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, 40, response.Data.WeekPoints)
}

func TestHandlers_Errors(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		expectedStatus int
	}{
		{"malformed week", "/api/snapshots/last-week", http.StatusBadRequest},
		{"not a monday", "/api/snapshots/2024-03-05", http.StatusBadRequest},
		{"missing snapshot", "/api/snapshots/2024-03-04/adv-9", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(t, tt.path)
			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}
