package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salesops/advisorpulse/internal/config"
	"github.com/salesops/advisorpulse/internal/di"
	"github.com/salesops/advisorpulse/internal/scheduler"
)

type probeJob struct {
	runs atomic.Int32
}

func (j *probeJob) Name() string { return "probe" }

func (j *probeJob) Run() error {
	j.runs.Add(1)
	return nil
}

func newTestServer(t *testing.T) (*Server, *di.Container) {
	t.Helper()
	cfg := &config.Config{
		DataDir:             t.TempDir(),
		Timezone:            "UTC",
		DailyTarget:         25,
		WeeklyDays:          5,
		HistoryWeeks:        12,
		SnapshotSchedule:    "0 5 0 * * MON",
		MaintenanceSchedule: "0 0 2 * * *",
		Backup:              &config.BackupConfig{},
	}

	container, _, err := di.Wire(cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(container.Close)

	srv := New(Config{Log: zerolog.Nop(), Port: 0, DevMode: true, Container: container})
	srv.systemHandlers.systemStats = func() (float64, float64) { return 12.5, 40 }
	return srv, container
}

func do(srv *Server, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func TestServer_Health(t *testing.T) {
	srv, _ := newTestServer(t)

	w := do(srv, http.MethodGet, "/health")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "advisorpulse", body["service"])
}

func TestServer_RoutesMounted(t *testing.T) {
	srv, _ := newTestServer(t)

	routes := map[string]bool{}
	err := chi.Walk(srv.router, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		routes[method+" "+route] = true
		return nil
	})
	require.NoError(t, err)

	for _, want := range []string{
		"GET /health",
		"GET /api/performance/advisors/{advisorID}",
		"GET /api/performance/teams/{ownerID}/coaching",
		"GET /api/performance/teams/{ownerID}/alerts",
		"GET /api/snapshots/{weekStart}",
		"GET /api/system/status",
		"GET /api/system/jobs",
		"POST /api/system/jobs/{name}",
	} {
		assert.True(t, routes[want], "missing route %s", want)
	}
}

func TestServer_PerformanceNotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	w := do(srv, http.MethodGet, "/api/performance/advisors/nobody")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSystemHandlers_Status(t *testing.T) {
	srv, _ := newTestServer(t)

	w := do(srv, http.MethodGet, "/api/system/status")
	require.Equal(t, http.StatusOK, w.Code)

	var response SystemStatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "healthy", response.Status)
	assert.Equal(t, 12.5, response.CPUPercent)
	assert.Equal(t, 40.0, response.MemoryPercent)
	require.Len(t, response.Databases, 2)
	assert.Equal(t, "sales", response.Databases[0].Name)
	assert.True(t, response.Databases[0].Healthy)
	assert.NotNil(t, response.Databases[0].Stats)
	assert.Len(t, response.Jobs, 2)
}

func TestSystemHandlers_ListJobs(t *testing.T) {
	srv, _ := newTestServer(t)

	w := do(srv, http.MethodGet, "/api/system/jobs")
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Data     []scheduler.JobInfo    `json:"data"`
		Metadata map[string]interface{} `json:"metadata"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response.Data, 2)
	assert.Equal(t, "database_maintenance", response.Data[0].Name)
	assert.Equal(t, "weekly_snapshots", response.Data[1].Name)
	assert.Equal(t, float64(2), response.Metadata["count"])
}

func TestSystemHandlers_TriggerJob(t *testing.T) {
	srv, container := newTestServer(t)
	job := &probeJob{}
	require.NoError(t, container.Scheduler.AddJob("@every 1h", job))

	w := do(srv, http.MethodPost, "/api/system/jobs/probe")
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Eventually(t, func() bool { return job.runs.Load() == 1 }, time.Second, 10*time.Millisecond)

	w = do(srv, http.MethodPost, "/api/system/jobs/unknown")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
