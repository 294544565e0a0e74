package settings

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// Setting keys understood by the service.
const (
	KeyDailyTarget  = "daily_target"
	KeyWeeklyDays   = "weekly_days"
	KeyTimezone     = "timezone"
	KeyHistoryWeeks = "history_weeks"
)

// ErrUnknownSetting is returned for keys outside SettingDefaults.
var ErrUnknownSetting = errors.New("unknown setting")

// ErrInvalidSetting is returned when a value fails validation.
var ErrInvalidSetting = errors.New("invalid setting value")

// SettingDefaults holds the default value of every configurable setting.
// Environment variables override these; stored settings override both.
var SettingDefaults = map[string]string{
	KeyDailyTarget:  "25",
	KeyWeeklyDays:   "5",
	KeyTimezone:     "America/Monterrey",
	KeyHistoryWeeks: "12",
}

// SettingDescriptions documents each key for the settings endpoint.
var SettingDescriptions = map[string]string{
	KeyDailyTarget:  "Points each advisor is expected to earn per business day",
	KeyWeeklyDays:   "Business days per week used for targets and projections (1-7)",
	KeyTimezone:     "IANA time zone used to turn activity timestamps into calendar days",
	KeyHistoryWeeks: "Number of past weeks included in history statistics",
}

// Validate checks value against the rules of key.
func Validate(key, value string) error {
	if _, ok := SettingDefaults[key]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSetting, key)
	}

	switch key {
	case KeyDailyTarget, KeyHistoryWeeks:
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("%w: %s must be a positive integer", ErrInvalidSetting, key)
		}
	case KeyWeeklyDays:
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 || n > 7 {
			return fmt.Errorf("%w: %s must be between 1 and 7", ErrInvalidSetting, key)
		}
	case KeyTimezone:
		if value == "" {
			return fmt.Errorf("%w: %s must not be empty", ErrInvalidSetting, key)
		}
		if _, err := time.LoadLocation(value); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidSetting, key, err)
		}
	}
	return nil
}
