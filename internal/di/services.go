package di

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/salesops/advisorpulse/internal/config"
	"github.com/salesops/advisorpulse/internal/modules/advisors"
	"github.com/salesops/advisorpulse/internal/modules/performance"
	"github.com/salesops/advisorpulse/internal/modules/settings"
)

// InitializeServices applies stored settings to cfg and creates the services.
func InitializeServices(container *Container, cfg *config.Config, log zerolog.Logger) error {
	if container.SettingsRepo == nil {
		return fmt.Errorf("repositories must be initialized first")
	}

	if err := cfg.UpdateFromSettings(container.SettingsRepo); err != nil {
		return fmt.Errorf("failed to apply stored settings: %w", err)
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	container.Location = loc

	container.SettingsService = settings.NewService(container.SettingsRepo, log)

	container.PerformanceService = performance.NewService(
		container.ActivityRepo,
		container.MetricScoreRepo,
		container.MinimumsRepo,
		advisors.NewRoster(container.AdvisorRepo),
		container.SnapshotStore,
		performance.Settings{
			DailyTarget:  cfg.DailyTarget,
			WeeklyDays:   cfg.WeeklyDays,
			HistoryWeeks: cfg.HistoryWeeks,
			Location:     loc,
		},
		log,
	)

	log.Info().
		Str("timezone", loc.String()).
		Int("weekly_target", cfg.WeeklyTarget()).
		Int("history_weeks", cfg.HistoryWeeks).
		Msg("Services initialized")

	return nil
}
