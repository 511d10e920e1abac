package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/ragline/internal/core/domain"
	"github.com/custodia-labs/ragline/internal/core/ports/driven"
	"github.com/custodia-labs/ragline/internal/core/ports/driving"
	"github.com/custodia-labs/ragline/internal/logger"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// SettingsService resolves settings from defaults, the config file, and
// RAGLINE_* environment variables, in that order.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
	dataDir     string
	lookupEnv   func(string) (string, bool)
}

// SettingsOption configures a SettingsService.
type SettingsOption func(*SettingsService)

// WithEnvLookup replaces os.LookupEnv. A nil lookup disables environment
// overrides.
func WithEnvLookup(lookup func(string) (string, bool)) SettingsOption {
	return func(s *SettingsService) {
		s.lookupEnv = lookup
	}
}

// WithDataDir records the data directory in resolved settings.
func WithDataDir(dir string) SettingsOption {
	return func(s *SettingsService) {
		s.dataDir = dir
	}
}

// NewSettingsService creates a new settings service.
func NewSettingsService(
	configStore driven.ConfigStore,
	aiValidator driven.AIConfigValidator,
	opts ...SettingsOption,
) *SettingsService {
	s := &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
		lookupEnv:   os.LookupEnv,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DefaultDataDir returns ~/.ragline, or ".ragline" when the home directory
// cannot be determined.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".ragline"
	}
	return filepath.Join(home, ".ragline")
}

// Get retrieves current application settings. Invalid file values are
// ignored; invalid environment values are logged and ignored.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	settings := domain.DefaultAppSettings()
	settings.DataDir = s.dataDir
	if settings.DataDir == "" {
		settings.DataDir = DefaultDataDir()
	}

	for _, st := range settingTable {
		if _, ok := s.configStore.Get(st.key); ok {
			st.load(s.configStore, &settings)
		}
	}

	if s.lookupEnv != nil {
		for _, st := range settingTable {
			raw, ok := s.lookupEnv(EnvName(st.key))
			if !ok || strings.TrimSpace(raw) == "" {
				continue
			}
			if err := st.parse(&settings, raw); err != nil {
				logger.Warn("ignoring %s: %v", EnvName(st.key), err)
			}
		}
	}

	return &settings, nil
}

// Save persists application settings. Empty secrets are not written, so
// saving never erases a stored API key.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	for _, st := range settingTable {
		if st.secret && st.format(settings) == "" {
			continue
		}
		if err := s.configStore.Set(st.key, st.value(settings)); err != nil {
			return fmt.Errorf("save %s: %w", st.key, err)
		}
	}
	return nil
}

// Set validates value for key and persists it. An empty value removes the key.
func (s *SettingsService) Set(key, value string) error {
	st, ok := lookupSetting(key)
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	if strings.TrimSpace(value) == "" {
		if err := s.configStore.Unset(key); err != nil {
			return fmt.Errorf("unset %s: %w", key, err)
		}
		return nil
	}

	scratch := domain.DefaultAppSettings()
	if err := st.parse(&scratch, value); err != nil {
		return err
	}
	if err := s.configStore.Set(key, st.value(&scratch)); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Entries returns every resolved key with its value. Set secrets are masked.
func (s *SettingsService) Entries() ([]domain.SettingEntry, error) {
	settings, err := s.Get()
	if err != nil {
		return nil, err
	}

	entries := make([]domain.SettingEntry, 0, len(settingTable)+1)
	entries = append(entries, domain.SettingEntry{Key: "data_dir", Value: settings.DataDir})
	for _, st := range settingTable {
		value := st.format(settings)
		if st.secret {
			value = MaskSecret(value)
		}
		entries = append(entries, domain.SettingEntry{Key: st.key, Value: value, Secret: st.secret})
	}
	return entries, nil
}

// MaskSecret keeps the last four characters of long secrets.
func MaskSecret(v string) string {
	switch {
	case v == "":
		return ""
	case len(v) <= 8:
		return "********"
	default:
		return "****" + v[len(v)-4:]
	}
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}
