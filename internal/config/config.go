// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/salesops/advisorpulse/internal/calendar"
	"github.com/salesops/advisorpulse/internal/modules/settings"
)

// Config holds application configuration
type Config struct {
	DataDir  string // Base directory for all databases (always absolute)
	LogLevel string
	Port     int
	DevMode  bool

	Timezone     string
	DailyTarget  int
	WeeklyDays   int
	HistoryWeeks int

	SnapshotSchedule    string
	MaintenanceSchedule string
	Backup              *BackupConfig
}

// BackupConfig configures the database backup job.
type BackupConfig struct {
	Schedule        string
	Bucket          string
	Endpoint        string // S3-compatible endpoint (R2, MinIO); empty means AWS
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	RetentionDays   int // 0 keeps backups forever
}

// Enabled reports whether a bucket is configured.
func (b *BackupConfig) Enabled() bool {
	return b != nil && b.Bucket != ""
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	absDataDir, err := filepath.Abs(getEnv("DATA_DIR", "./data"))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}
	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := &Config{
		DataDir:  absDataDir,
		Port:     getEnvAsInt("PORT", 8080),
		DevMode:  getEnvAsBool("DEV_MODE", false),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		Timezone:     getEnv("TIMEZONE", calendar.DefaultTimezone),
		DailyTarget:  getEnvAsInt("DAILY_TARGET", 25),
		WeeklyDays:   getEnvAsInt("WEEKLY_DAYS", 5),
		HistoryWeeks: getEnvAsInt("HISTORY_WEEKS", 12),

		SnapshotSchedule:    getEnv("SNAPSHOT_SCHEDULE", "0 5 0 * * MON"),
		MaintenanceSchedule: getEnv("MAINTENANCE_SCHEDULE", "0 0 2 * * *"),
		Backup: &BackupConfig{
			Schedule:        getEnv("BACKUP_SCHEDULE", "0 0 3 * * *"),
			Bucket:          getEnv("BACKUP_BUCKET", ""),
			Endpoint:        getEnv("BACKUP_ENDPOINT", ""),
			Region:          getEnv("BACKUP_REGION", "auto"),
			AccessKeyID:     getEnv("BACKUP_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("BACKUP_SECRET_ACCESS_KEY", ""),
			RetentionDays:   getEnvAsInt("BACKUP_RETENTION_DAYS", 30),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// UpdateFromSettings updates configuration from the settings table.
// Stored settings take precedence over environment variables; the result is
// validated again.
func (c *Config) UpdateFromSettings(settingsRepo *settings.Repository) error {
	var err error

	if c.DailyTarget, err = settingsRepo.GetInt(settings.KeyDailyTarget, c.DailyTarget); err != nil {
		return fmt.Errorf("failed to get %s from settings: %w", settings.KeyDailyTarget, err)
	}
	if c.WeeklyDays, err = settingsRepo.GetInt(settings.KeyWeeklyDays, c.WeeklyDays); err != nil {
		return fmt.Errorf("failed to get %s from settings: %w", settings.KeyWeeklyDays, err)
	}
	if c.HistoryWeeks, err = settingsRepo.GetInt(settings.KeyHistoryWeeks, c.HistoryWeeks); err != nil {
		return fmt.Errorf("failed to get %s from settings: %w", settings.KeyHistoryWeeks, err)
	}
	if c.Timezone, err = settingsRepo.GetString(settings.KeyTimezone, c.Timezone); err != nil {
		return fmt.Errorf("failed to get %s from settings: %w", settings.KeyTimezone, err)
	}

	return c.Validate()
}

// Validate checks the configuration is usable.
func (c *Config) Validate() error {
	if c.DailyTarget <= 0 {
		return fmt.Errorf("daily target must be positive, got %d", c.DailyTarget)
	}
	if c.WeeklyDays < 1 || c.WeeklyDays > 7 {
		return fmt.Errorf("weekly days must be between 1 and 7, got %d", c.WeeklyDays)
	}
	if c.HistoryWeeks <= 0 {
		return fmt.Errorf("history weeks must be positive, got %d", c.HistoryWeeks)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.Backup.Enabled() && (c.Backup.AccessKeyID == "") != (c.Backup.SecretAccessKey == "") {
		return fmt.Errorf("backup credentials require both an access key id and a secret")
	}
	return nil
}

// Location loads the configured time zone.
func (c *Config) Location() (*time.Location, error) {
	return calendar.LoadLocation(c.Timezone)
}

// WeeklyTarget is DailyTarget × WeeklyDays.
func (c *Config) WeeklyTarget() int {
	return c.DailyTarget * c.WeeklyDays
}

// DatabasePath returns the path of a named database under DataDir.
func (c *Config) DatabasePath(name string) string {
	return filepath.Join(c.DataDir, name+".db")
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
