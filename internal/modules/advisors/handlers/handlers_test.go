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

	"github.com/salesops/advisorpulse/internal/modules/advisors"
	testingutil "github.com/salesops/advisorpulse/internal/testing"
)

func newTestRouter(t *testing.T) chi.Router {
	t.Helper()
	db := testingutil.NewMemoryDB(t, "sales")
	testingutil.SeedAdvisors(t, db, testingutil.NewTeamFixtures())
	router := chi.NewRouter()
	NewHandler(advisors.NewRepository(db, zerolog.Nop()), zerolog.Nop()).RegisterRoutes(router)
	return router
}

func TestAdvisorRoutes(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name           string
		method         string
		path           string
		body           string
		expectedStatus int
	}{
		{"list all", http.MethodGet, "/api/advisors/", "", http.StatusOK},
		{"list team", http.MethodGet, "/api/advisors/?owner_id=owner-1", "", http.StatusOK},
		{"get", http.MethodGet, "/api/advisors/adv-1", "", http.StatusOK},
		{"get missing", http.MethodGet, "/api/advisors/ghost", "", http.StatusNotFound},
		{"upsert", http.MethodPut, "/api/advisors/adv-9", `{"name":"Eva","owner_id":"owner-1"}`, http.StatusOK},
		{"upsert bad role", http.MethodPut, "/api/advisors/adv-9", `{"name":"Eva","role":"intern"}`, http.StatusBadRequest},
		{"upsert bad body", http.MethodPut, "/api/advisors/adv-9", `[`, http.StatusBadRequest},
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

func TestListTeam(t *testing.T) {
	router := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/advisors/?owner_id=owner-1", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Data []advisors.Advisor `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(t, response.Data, 2)
}
