package di

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/salesops/advisorpulse/internal/config"
	"github.com/salesops/advisorpulse/internal/modules/snapshots"
	"github.com/salesops/advisorpulse/internal/reliability"
	"github.com/salesops/advisorpulse/internal/scheduler"
)

// RegisterJobs creates the scheduler and registers every job on it. The
// scheduler is not started.
func RegisterJobs(container *Container, cfg *config.Config, log zerolog.Logger) (*JobInstances, error) {
	if container == nil || container.PerformanceService == nil {
		return nil, fmt.Errorf("services must be initialized first")
	}

	sched := scheduler.New(container.Location, log)
	instances := &JobInstances{}

	snapshotJob := snapshots.NewSnapshotJob(container.PerformanceService, container.SnapshotStore, snapshots.DefaultRetentionWeeks)
	snapshotJob.SetLogger(log)
	if err := sched.AddJob(cfg.SnapshotSchedule, snapshotJob); err != nil {
		return nil, err
	}
	instances.Snapshots = snapshotJob

	maintenanceJob := reliability.NewMaintenanceJob(container.Databases(), cfg.DataDir)
	maintenanceJob.SetLogger(log)
	if err := sched.AddJob(cfg.MaintenanceSchedule, maintenanceJob); err != nil {
		return nil, err
	}
	instances.Maintenance = maintenanceJob

	if cfg.Backup.Enabled() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		store, err := reliability.NewS3Store(ctx, cfg.Backup, log)
		if err != nil {
			return nil, fmt.Errorf("failed to create backup store: %w", err)
		}
		backupJob := reliability.NewBackupJob(container.Databases(), store, cfg.DataDir, cfg.Backup.RetentionDays)
		backupJob.SetLogger(log)
		if err := sched.AddJob(cfg.Backup.Schedule, backupJob); err != nil {
			return nil, err
		}
		instances.Backup = backupJob
	} else {
		log.Info().Msg("Backup bucket not configured, cloud backups disabled")
	}

	container.Scheduler = sched
	return instances, nil
}
