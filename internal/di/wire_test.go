package di

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salesops/advisorpulse/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		DataDir:             t.TempDir(),
		Timezone:            "America/Monterrey",
		DailyTarget:         25,
		WeeklyDays:          5,
		HistoryWeeks:        12,
		SnapshotSchedule:    "0 5 0 * * MON",
		MaintenanceSchedule: "0 0 2 * * *",
		Backup:              &config.BackupConfig{Schedule: "0 0 3 * * *"},
	}
}

func TestWire(t *testing.T) {
	cfg := testConfig(t)

	container, jobs, err := Wire(cfg, zerolog.Nop())
	require.NoError(t, err)
	defer container.Close()

	assert.NotNil(t, container.SalesDB)
	assert.NotNil(t, container.CacheDB)
	assert.Len(t, container.Databases(), 2)

	assert.NotNil(t, container.ActivityRepo)
	assert.NotNil(t, container.AdvisorRepo)
	assert.NotNil(t, container.MetricScoreRepo)
	assert.NotNil(t, container.MinimumsRepo)
	assert.NotNil(t, container.SettingsRepo)
	assert.NotNil(t, container.SnapshotStore)
	assert.NotNil(t, container.SettingsService)
	require.NotNil(t, container.PerformanceService)
	assert.Equal(t, 125, container.PerformanceService.Settings().WeeklyTarget())
	assert.Equal(t, "America/Monterrey", container.Location.String())

	require.NotNil(t, jobs)
	assert.NotNil(t, jobs.Snapshots)
	assert.NotNil(t, jobs.Maintenance)
	assert.Nil(t, jobs.Backup, "backups are disabled without a bucket")

	names := make([]string, 0)
	for _, info := range container.Scheduler.Jobs() {
		names = append(names, info.Name)
	}
	assert.Equal(t, []string{"database_maintenance", "weekly_snapshots"}, names)
}

func TestWire_InvalidSchedule(t *testing.T) {
	cfg := testConfig(t)
	cfg.SnapshotSchedule = "not a schedule"

	container, jobs, err := Wire(cfg, zerolog.Nop())
	assert.Error(t, err)
	assert.Nil(t, container)
	assert.Nil(t, jobs)
}

func TestInitializeRepositories_RequiresDatabases(t *testing.T) {
	err := InitializeRepositories(&Container{}, zerolog.Nop())
	assert.Error(t, err)
}

func TestRegisterJobs_RequiresServices(t *testing.T) {
	_, err := RegisterJobs(&Container{}, testConfig(t), zerolog.Nop())
	assert.Error(t, err)
}
