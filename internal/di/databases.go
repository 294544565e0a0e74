package di

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/salesops/advisorpulse/internal/config"
	"github.com/salesops/advisorpulse/internal/database"
)

// InitializeDatabases opens both databases and applies their schemas.
func InitializeDatabases(cfg *config.Config, log zerolog.Logger) (*Container, error) {
	container := &Container{}

	// sales.db - activity ledger and configuration; durability first
	salesDB, err := database.New(database.Config{
		Path:    cfg.DatabasePath(database.NameSales),
		Profile: database.ProfileLedger,
		Name:    database.NameSales,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sales database: %w", err)
	}
	container.SalesDB = salesDB

	// cache.db - snapshots that can be rebuilt from sales.db
	cacheDB, err := database.New(database.Config{
		Path:    cfg.DatabasePath(database.NameCache),
		Profile: database.ProfileCache,
		Name:    database.NameCache,
	})
	if err != nil {
		salesDB.Close()
		return nil, fmt.Errorf("failed to initialize cache database: %w", err)
	}
	container.CacheDB = cacheDB

	for _, db := range container.Databases() {
		if err := db.Migrate(); err != nil {
			container.Close()
			return nil, fmt.Errorf("failed to apply schema to %s: %w", db.Name(), err)
		}
	}

	log.Info().Str("data_dir", cfg.DataDir).Msg("Databases initialized and schemas applied")

	return container, nil
}
