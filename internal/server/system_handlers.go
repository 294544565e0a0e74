package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/salesops/advisorpulse/internal/database"
	"github.com/salesops/advisorpulse/internal/scheduler"
)

// SystemHandlers handles system monitoring and job trigger endpoints
type SystemHandlers struct {
	log         zerolog.Logger
	startupTime time.Time
	databases   []*database.DB
	scheduler   *scheduler.Scheduler

	// systemStats is replaceable in tests
	systemStats func() (float64, float64)
}

// DatabaseStatus is the per-database part of the status response
type DatabaseStatus struct {
	Name    string          `json:"name"`
	Healthy bool            `json:"healthy"`
	Stats   *database.Stats `json:"stats,omitempty"`
}

// SystemStatusResponse represents the system status response
type SystemStatusResponse struct {
	Status        string              `json:"status"`
	StartupTime   time.Time           `json:"startup_time"`
	UptimeSeconds int64               `json:"uptime_seconds"`
	CPUPercent    float64             `json:"cpu_percent"`
	MemoryPercent float64             `json:"memory_percent"`
	Databases     []DatabaseStatus    `json:"databases"`
	Jobs          []scheduler.JobInfo `json:"jobs"`
}

// NewSystemHandlers creates a new system handlers instance
func NewSystemHandlers(databases []*database.DB, sched *scheduler.Scheduler, log zerolog.Logger) *SystemHandlers {
	h := &SystemHandlers{
		log:         log.With().Str("handler", "system").Logger(),
		startupTime: time.Now(),
		databases:   databases,
		scheduler:   sched,
	}
	h.systemStats = h.getSystemStats
	return h
}

// HandleSystemStatus handles GET /api/system/status
func (h *SystemHandlers) HandleSystemStatus(w http.ResponseWriter, r *http.Request) {
	response := SystemStatusResponse{
		Status:        "healthy",
		StartupTime:   h.startupTime,
		UptimeSeconds: int64(time.Since(h.startupTime).Seconds()),
		Databases:     make([]DatabaseStatus, 0, len(h.databases)),
		Jobs:          h.jobs(),
	}
	response.CPUPercent, response.MemoryPercent = h.systemStats()

	for _, db := range h.databases {
		status := DatabaseStatus{Name: db.Name(), Healthy: true}
		if err := db.HealthCheck(r.Context()); err != nil {
			h.log.Warn().Err(err).Str("database", db.Name()).Msg("Database health check failed")
			status.Healthy = false
			response.Status = "degraded"
		}
		if stats, err := db.GetStats(); err == nil {
			status.Stats = stats
		}
		response.Databases = append(response.Databases, status)
	}

	writeJSON(w, http.StatusOK, response)
}

// HandleListJobs handles GET /api/system/jobs
func (h *SystemHandlers) HandleListJobs(w http.ResponseWriter, r *http.Request) {
	jobs := h.jobs()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": jobs,
		"metadata": map[string]interface{}{
			"count": len(jobs),
		},
	})
}

// HandleTriggerJob handles POST /api/system/jobs/{name}. The job runs in the
// background; the response only confirms it was accepted.
func (h *SystemHandlers) HandleTriggerJob(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	if h.scheduler == nil || !h.scheduler.Has(name) {
		writeError(w, http.StatusNotFound, "Unknown job: "+name)
		return
	}

	h.log.Info().Str("job", name).Msg("Manual job run triggered")

	go func() {
		if err := h.scheduler.RunNamed(name); err != nil {
			if errors.Is(err, scheduler.ErrAlreadyRunning) {
				return
			}
			h.log.Error().Err(err).Str("job", name).Msg("Manual job run failed")
		}
	}()

	writeJSON(w, http.StatusAccepted, map[string]string{
		"status":  "accepted",
		"message": name + " triggered",
	})
}

func (h *SystemHandlers) jobs() []scheduler.JobInfo {
	if h.scheduler == nil {
		return []scheduler.JobInfo{}
	}
	return h.scheduler.Jobs()
}

// getSystemStats returns CPU and memory usage percentages.
// CPU is sampled over 100ms so the status call stays fast.
func (h *SystemHandlers) getSystemStats() (float64, float64) {
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = []float64{0}
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get memory statistics")
		return 0, 0
	}

	cpuAvg := 0.0
	if len(cpuPercent) > 0 {
		cpuAvg = cpuPercent[0]
	}

	return cpuAvg, memStat.UsedPercent
}
