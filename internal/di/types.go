// Package di wires databases, repositories, services and jobs into a Container.
package di

import (
	"time"

	"github.com/salesops/advisorpulse/internal/database"
	"github.com/salesops/advisorpulse/internal/modules/activity"
	"github.com/salesops/advisorpulse/internal/modules/advisors"
	"github.com/salesops/advisorpulse/internal/modules/performance"
	"github.com/salesops/advisorpulse/internal/modules/scoring"
	"github.com/salesops/advisorpulse/internal/modules/settings"
	"github.com/salesops/advisorpulse/internal/modules/snapshots"
	"github.com/salesops/advisorpulse/internal/reliability"
	"github.com/salesops/advisorpulse/internal/scheduler"
)

// Container holds all dependencies for the application. It is created by
// Wire and passed to the server, which builds handlers from it.
type Container struct {
	// Databases
	SalesDB *database.DB // activity, scoring configuration, roster, settings
	CacheDB *database.DB // rebuildable weekly snapshots

	// Repositories
	ActivityRepo    *activity.Repository
	AdvisorRepo     *advisors.Repository
	MetricScoreRepo *scoring.MetricScoreRepository
	MinimumsRepo    *scoring.MinimumsRepository
	SettingsRepo    *settings.Repository
	SnapshotStore   *snapshots.Store

	// Services
	Location           *time.Location
	SettingsService    *settings.Service
	PerformanceService *performance.Service

	// Background jobs
	Scheduler *scheduler.Scheduler
}

// Databases returns every open database in backup order.
func (c *Container) Databases() []*database.DB {
	var dbs []*database.DB
	for _, db := range []*database.DB{c.SalesDB, c.CacheDB} {
		if db != nil {
			dbs = append(dbs, db)
		}
	}
	return dbs
}

// Close stops the scheduler and closes every database.
func (c *Container) Close() {
	if c.Scheduler != nil {
		c.Scheduler.Stop()
	}
	for _, db := range c.Databases() {
		_ = db.Close()
	}
}

// JobInstances holds the registered jobs. Backup is nil when no bucket is configured.
type JobInstances struct {
	Snapshots   *snapshots.SnapshotJob
	Maintenance *reliability.MaintenanceJob
	Backup      *reliability.BackupJob
}
