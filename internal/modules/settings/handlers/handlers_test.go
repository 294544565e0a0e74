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

	"github.com/salesops/advisorpulse/internal/modules/settings"
	testingutil "github.com/salesops/advisorpulse/internal/testing"
)

func newTestRouter(t *testing.T) chi.Router {
	t.Helper()
	db := testingutil.NewMemoryDB(t, "sales")
	service := settings.NewService(settings.NewRepository(db, zerolog.Nop()), zerolog.Nop())
	router := chi.NewRouter()
	NewHandler(service, zerolog.Nop()).RegisterRoutes(router)
	return router
}

func TestSettingsRoutes(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name           string
		method         string
		path           string
		body           string
		expectedStatus int
	}{
		{"list", http.MethodGet, "/api/settings/", "", http.StatusOK},
		{"update", http.MethodPut, "/api/settings/daily_target", `{"value":"30"}`, http.StatusOK},
		{"invalid value", http.MethodPut, "/api/settings/weekly_days", `{"value":"9"}`, http.StatusBadRequest},
		{"unknown key", http.MethodPut, "/api/settings/led_brightness", `{"value":"9"}`, http.StatusNotFound},
		{"bad body", http.MethodPut, "/api/settings/daily_target", `{`, http.StatusBadRequest},
		{"reset", http.MethodDelete, "/api/settings/daily_target", "", http.StatusNoContent},
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

func TestSettingsRoutes_ListShowsOverride(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPut, "/api/settings/history_weeks", strings.NewReader(`{"value":"8"}`))
	router.ServeHTTP(httptest.NewRecorder(), req)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/settings/", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Data []settings.SettingValue `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	found := false
	for _, v := range response.Data {
		if v.Key == settings.KeyHistoryWeeks {
			found = true
			assert.Equal(t, "8", v.Value)
			assert.True(t, v.Overridden)
		}
	}
	assert.True(t, found)
}
