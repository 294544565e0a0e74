package di

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/salesops/advisorpulse/internal/modules/activity"
	"github.com/salesops/advisorpulse/internal/modules/advisors"
	"github.com/salesops/advisorpulse/internal/modules/scoring"
	"github.com/salesops/advisorpulse/internal/modules/settings"
	"github.com/salesops/advisorpulse/internal/modules/snapshots"
)

// InitializeRepositories creates all repositories over the container's databases.
func InitializeRepositories(container *Container, log zerolog.Logger) error {
	if container == nil || container.SalesDB == nil || container.CacheDB == nil {
		return fmt.Errorf("databases must be initialized first")
	}

	sales := container.SalesDB.Conn()
	container.ActivityRepo = activity.NewRepository(sales, log)
	container.AdvisorRepo = advisors.NewRepository(sales, log)
	container.MetricScoreRepo = scoring.NewMetricScoreRepository(sales, log)
	container.MinimumsRepo = scoring.NewMinimumsRepository(sales, log)
	container.SettingsRepo = settings.NewRepository(sales, log)

	container.SnapshotStore = snapshots.NewStore(container.CacheDB.Conn(), log)

	log.Debug().Msg("Repositories initialized")
	return nil
}
