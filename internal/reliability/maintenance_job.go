package reliability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/disk"

	"github.com/salesops/advisorpulse/internal/database"
)

// DefaultMinFreeBytes is the free disk space below which maintenance fails.
const DefaultMinFreeBytes = 500 * 1024 * 1024

// DiskUsageFunc reports usage of the filesystem holding path.
type DiskUsageFunc func(path string) (*disk.UsageStat, error)

// MaintenanceJob checks integrity, truncates WAL files and watches disk space.
type MaintenanceJob struct {
	databases    []*database.DB
	dataDir      string
	minFreeBytes uint64
	usage        DiskUsageFunc
	timeout      time.Duration
	log          zerolog.Logger
}

// NewMaintenanceJob creates a maintenance job over databases stored in dataDir.
func NewMaintenanceJob(databases []*database.DB, dataDir string) *MaintenanceJob {
	return &MaintenanceJob{
		databases:    databases,
		dataDir:      dataDir,
		minFreeBytes: DefaultMinFreeBytes,
		usage:        disk.Usage,
		timeout:      5 * time.Minute,
		log:          zerolog.Nop(),
	}
}

// SetLogger sets the logger for the job
func (j *MaintenanceJob) SetLogger(log zerolog.Logger) {
	j.log = log.With().Str("job", j.Name()).Logger()
}

// SetDiskUsage replaces the disk usage probe.
func (j *MaintenanceJob) SetDiskUsage(usage DiskUsageFunc, minFreeBytes uint64) {
	j.usage = usage
	j.minFreeBytes = minFreeBytes
}

// Name returns the job name
func (j *MaintenanceJob) Name() string {
	return "database_maintenance"
}

// Run checks every database, then the disk. Integrity failures and low disk
// space fail the run; checkpoint failures are only logged.
func (j *MaintenanceJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()
	var errs []error

	for _, db := range j.databases {
		if err := db.HealthCheck(ctx); err != nil {
			j.log.Error().Err(err).Str("database", db.Name()).Msg("Integrity check failed")
			errs = append(errs, err)
			continue
		}

		if err := db.WALCheckpoint("TRUNCATE"); err != nil {
			j.log.Warn().Err(err).Str("database", db.Name()).Msg("WAL checkpoint failed")
		}

		stats, err := db.GetStats()
		if err != nil {
			j.log.Warn().Err(err).Str("database", db.Name()).Msg("Failed to read database stats")
			continue
		}
		j.log.Debug().
			Str("database", db.Name()).
			Int64("size_bytes", stats.SizeBytes).
			Int64("wal_size_bytes", stats.WALSizeBytes).
			Int64("freelist_count", stats.FreelistCount).
			Msg("Database checked")
	}

	if err := j.checkDiskSpace(); err != nil {
		errs = append(errs, err)
	}

	j.log.Info().
		Int("databases", len(j.databases)).
		Int("failures", len(errs)).
		Dur("duration", time.Since(start)).
		Msg("Maintenance completed")

	return errors.Join(errs...)
}

func (j *MaintenanceJob) checkDiskSpace() error {
	usage, err := j.usage(j.dataDir)
	if err != nil {
		j.log.Warn().Err(err).Str("path", j.dataDir).Msg("Failed to read disk usage")
		return nil
	}

	j.log.Debug().
		Uint64("free_bytes", usage.Free).
		Float64("used_percent", usage.UsedPercent).
		Msg("Disk space check")

	if usage.Free < j.minFreeBytes {
		return fmt.Errorf("only %d MB free on %s", usage.Free/1024/1024, j.dataDir)
	}
	return nil
}
