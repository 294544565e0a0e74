package di

import (
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salesops/advisorpulse/internal/database"
)

func TestInitializeDatabases(t *testing.T) {
	cfg := testConfig(t)

	container, err := InitializeDatabases(cfg, zerolog.Nop())
	require.NoError(t, err)
	defer container.Close()

	assert.Equal(t, database.NameSales, container.SalesDB.Name())
	assert.Equal(t, database.ProfileLedger, container.SalesDB.Profile())
	assert.Equal(t, database.NameCache, container.CacheDB.Name())
	assert.Equal(t, database.ProfileCache, container.CacheDB.Profile())

	for _, name := range []string{database.NameSales, database.NameCache} {
		_, err := os.Stat(cfg.DatabasePath(name))
		assert.NoError(t, err, "%s database file should exist", name)
	}

	var tables int
	err = container.SalesDB.Conn().QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'activity_events'",
	).Scan(&tables)
	require.NoError(t, err)
	assert.Equal(t, 1, tables)
}
