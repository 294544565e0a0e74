// Package testing provides testing utilities and helpers for the advisorpulse project.
package testing

import (
	"database/sql"
	"fmt"
	"os"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/salesops/advisorpulse/internal/database"
)

// NewTestDB creates a file-backed SQLite database with the named schema
// applied ("sales" or "cache"; unknown names give an empty database).
// Returns the database instance and a cleanup function that closes the
// connection and removes the file. The cleanup function is idempotent.
func NewTestDB(t *testing.T, name string) (*database.DB, func()) {
	t.Helper()

	tmpFile, err := os.CreateTemp("", fmt.Sprintf("test_%s_*.db", name))
	if err != nil {
		t.Fatalf("Failed to create temporary database file: %v", err)
	}
	tmpPath := tmpFile.Name()
	_ = tmpFile.Close()

	db, err := database.New(database.Config{
		Path:    tmpPath,
		Profile: database.ProfileStandard,
		Name:    name,
	})
	if err != nil {
		_ = os.Remove(tmpPath)
		t.Fatalf("Failed to create test database %s: %v", name, err)
	}

	if err := db.Migrate(); err != nil {
		_ = db.Close()
		_ = os.Remove(tmpPath)
		t.Fatalf("Failed to migrate test database %s: %v", name, err)
	}

	closed := false
	return db, func() {
		if closed {
			return
		}
		closed = true
		if err := db.Close(); err != nil {
			t.Logf("Warning: Failed to close test database %s: %v", name, err)
		}
		for _, suffix := range []string{"", "-wal", "-shm"} {
			_ = os.Remove(tmpPath + suffix)
		}
	}
}

// NewMemoryDB opens an in-memory database on the mattn/go-sqlite3 driver with
// the named schema applied. It is closed automatically when the test ends.
func NewMemoryDB(t *testing.T, name string) *sql.DB {
	t.Helper()

	// A single connection keeps every query on the same in-memory database.
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	schema, err := database.SchemaSQL(name)
	if err != nil {
		t.Fatalf("Failed to load schema %s: %v", name, err)
	}
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("Failed to apply schema %s: %v", name, err)
	}

	return db
}
