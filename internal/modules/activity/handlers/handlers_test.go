package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salesops/advisorpulse/internal/modules/activity"
	testingutil "github.com/salesops/advisorpulse/internal/testing"
)

func newTestRouter(t *testing.T) chi.Router {
	t.Helper()
	repo := activity.NewRepository(testingutil.NewMemoryDB(t, "sales"), zerolog.Nop())
	router := chi.NewRouter()
	NewHandler(repo, time.UTC, zerolog.Nop()).RegisterRoutes(router)
	return router
}

func doRequest(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRecordAndVoid(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(router, http.MethodPost, "/api/activity/events/",
		`{"actor_user_id":"adv-1","metric_key":"calls","value":4,"recorded_at":"2024-03-05T15:00:00Z"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		Data activity.Event `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "manual", created.Data.Source)

	w = doRequest(router, http.MethodPost, "/api/activity/events/"+created.Data.ID+"/void", "")
	require.Equal(t, http.StatusOK, w.Code)

	var voided struct {
		Data activity.Event `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &voided))
	assert.True(t, voided.Data.Voided)
}

func TestRecord_Errors(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name           string
		method         string
		path           string
		body           string
		expectedStatus int
	}{
		{"bad body", http.MethodPost, "/api/activity/events/", `{`, http.StatusBadRequest},
		{"unknown metric", http.MethodPost, "/api/activity/events/", `{"actor_user_id":"a","metric_key":"naps","value":1}`, http.StatusBadRequest},
		{"negative value", http.MethodPost, "/api/activity/events/", `{"actor_user_id":"a","metric_key":"calls","value":-2}`, http.StatusBadRequest},
		{"void missing", http.MethodPost, "/api/activity/events/nope/void", "", http.StatusNotFound},
		{"get missing", http.MethodGet, "/api/activity/events/nope", "", http.StatusNotFound},
		{"bad from", http.MethodGet, "/api/activity/events/?from=yesterday", "", http.StatusBadRequest},
		{"bad limit", http.MethodGet, "/api/activity/events/?limit=0", "", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(router, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())

			var response map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.NotEmpty(t, response["error"])
		})
	}
}

func TestList_DateRangeIsInclusive(t *testing.T) {
	router := newTestRouter(t)
	for _, at := range []string{"2024-03-04T10:00:00Z", "2024-03-05T23:59:00Z", "2024-03-06T00:00:00Z"} {
		w := doRequest(router, http.MethodPost, "/api/activity/events/",
			`{"actor_user_id":"adv-1","metric_key":"calls","value":1,"recorded_at":"`+at+`"}`)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := doRequest(router, http.MethodGet, "/api/activity/events/?advisor_id=adv-1&from=2024-03-05&to=2024-03-05", "")
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Data     []activity.Event       `json:"data"`
		Metadata map[string]interface{} `json:"metadata"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response.Data, 1)
	assert.Equal(t, float64(1), response.Metadata["count"])
}
