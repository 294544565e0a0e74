package settings

import (
	"github.com/rs/zerolog"
)

// SettingValue is one setting as reported by the API.
type SettingValue struct {
	Key         string `json:"key"`
	Value       string `json:"value"`
	Default     string `json:"default"`
	Description string `json:"description"`
	Overridden  bool   `json:"overridden"`
}

// Service validates settings before they reach the repository.
type Service struct {
	repo *Repository
	log  zerolog.Logger
}

// NewService creates a settings service.
func NewService(repo *Repository, log zerolog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log.With().Str("service", "settings").Logger(),
	}
}

// GetAll returns every known setting merged with its default.
func (s *Service) GetAll() ([]SettingValue, error) {
	stored, err := s.repo.GetAll()
	if err != nil {
		return nil, err
	}

	keys := []string{KeyDailyTarget, KeyWeeklyDays, KeyTimezone, KeyHistoryWeeks}
	values := make([]SettingValue, 0, len(keys))
	for _, key := range keys {
		v := SettingValue{
			Key:         key,
			Value:       SettingDefaults[key],
			Default:     SettingDefaults[key],
			Description: SettingDescriptions[key],
		}
		if stored, ok := stored[key]; ok {
			v.Value = stored
			v.Overridden = true
		}
		values = append(values, v)
	}
	return values, nil
}

// Set validates and stores a setting. Changes to targets and the time zone
// take effect on the next restart.
func (s *Service) Set(key, value string) error {
	if err := Validate(key, value); err != nil {
		return err
	}
	description := SettingDescriptions[key]
	if err := s.repo.Set(key, value, &description); err != nil {
		return err
	}
	s.log.Info().Str("key", key).Str("value", value).Msg("Setting updated")
	return nil
}

// Reset removes a stored override so the default applies again.
func (s *Service) Reset(key string) error {
	if _, ok := SettingDefaults[key]; !ok {
		return ErrUnknownSetting
	}
	return s.repo.Delete(key)
}
