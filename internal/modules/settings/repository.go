// Package settings provides the key/value settings store. Settings live in the
// sales database and take precedence over environment variables.
package settings

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

// Repository handles settings database operations.
//
// Settings are stored as strings and converted to the appropriate type when
// retrieved.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new settings repository.
//
// Parameters:
//   - db: Database connection to sales.db
//   - log: Structured logger
//
// Returns:
//   - *Repository: Initialized repository instance
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repository", "settings").Logger(),
	}
}

// Get retrieves a setting value by key.
// Returns nil if the setting doesn't exist (not an error).
//
// Parameters:
//   - key: Setting key (e.g., "daily_target", "timezone")
//
// Returns:
//   - *string: Setting value if found, nil if not found
//   - error: Error if query fails
func (r *Repository) Get(key string) (*string, error) {
	var value string
	err := r.db.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get setting %s: %w", key, err)
	}
	return &value, nil
}

// Set inserts or updates a setting. The description is optional; when nil an
// existing description is kept.
//
// Parameters:
//   - key: Setting key
//   - value: Setting value (stored as string)
//   - description: Optional description of the setting
//
// Returns:
//   - error: Error if database operation fails
func (r *Repository) Set(key string, value string, description *string) error {
	now := time.Now().Unix()

	var err error
	if description != nil {
		_, err = r.db.Exec(`
			INSERT INTO settings (key, value, description, updated_at)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(key) DO UPDATE SET
				value = excluded.value,
				description = excluded.description,
				updated_at = excluded.updated_at
		`, key, value, *description, now)
	} else {
		_, err = r.db.Exec(`
			INSERT INTO settings (key, value, updated_at)
			VALUES (?, ?, ?)
			ON CONFLICT(key) DO UPDATE SET
				value = excluded.value,
				updated_at = excluded.updated_at
		`, key, value, now)
	}
	if err != nil {
		return fmt.Errorf("failed to set setting %s: %w", key, err)
	}
	return nil
}

// GetAll retrieves all settings as a map.
//
// Returns:
//   - map[string]string: Setting values keyed by setting key
//   - error: Error if query fails
func (r *Repository) GetAll() (map[string]string, error) {
	rows, err := r.db.Query("SELECT key, value FROM settings")
	if err != nil {
		return nil, fmt.Errorf("failed to get all settings: %w", err)
	}
	defer rows.Close()

	result := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			r.log.Warn().Err(err).Msg("Failed to scan setting row")
			continue
		}
		result[key] = value
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating settings: %w", err)
	}

	return result, nil
}

// GetInt retrieves a setting value as integer.
// Returns defaultValue if the setting doesn't exist or parsing fails.
// Handles "12.0" strings by parsing via float first.
//
// Parameters:
//   - key: Setting key
//   - defaultValue: Default value to return if setting not found or invalid
//
// Returns:
//   - int: Setting value as integer, or defaultValue
//   - error: Error if query fails
func (r *Repository) GetInt(key string, defaultValue int) (int, error) {
	value, err := r.Get(key)
	if err != nil {
		return defaultValue, err
	}
	if value == nil {
		return defaultValue, nil
	}

	floatVal, err := strconv.ParseFloat(*value, 64)
	if err != nil {
		r.log.Warn().
			Err(err).
			Str("key", key).
			Str("value", *value).
			Msg("Failed to parse int setting")
		return defaultValue, nil
	}

	return int(floatVal), nil
}

// SetInt sets a setting value as integer.
func (r *Repository) SetInt(key string, value int) error {
	return r.Set(key, strconv.Itoa(value), nil)
}

// GetString retrieves a setting value, or defaultValue when unset or empty.
//
// Parameters:
//   - key: Setting key
//   - defaultValue: Default value to return if setting not found or empty
//
// Returns:
//   - string: Setting value, or defaultValue
//   - error: Error if query fails
func (r *Repository) GetString(key string, defaultValue string) (string, error) {
	value, err := r.Get(key)
	if err != nil {
		return defaultValue, err
	}
	if value == nil || *value == "" {
		return defaultValue, nil
	}
	return *value, nil
}

// Delete deletes a setting. Deleting a missing key is not an error.
//
// Parameters:
//   - key: Setting key
//
// Returns:
//   - error: Error if database operation fails
func (r *Repository) Delete(key string) error {
	if _, err := r.db.Exec("DELETE FROM settings WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to delete setting %s: %w", key, err)
	}
	return nil
}
