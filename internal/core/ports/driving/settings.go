package driving

import "github.com/custodia-labs/ragline/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get resolves settings from defaults, the config file, and the environment.
	Get() (*domain.AppSettings, error)

	// Save persists settings to the config file. Empty API keys are not written.
	Save(settings *domain.AppSettings) error

	// Set stores a single dotted key after validating it.
	Set(key, value string) error

	// Entries returns every resolved key with its value. Secrets are masked.
	Entries() ([]domain.SettingEntry, error)

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings

	// ValidateEmbeddingConfig pings the configured embedding provider.
	ValidateEmbeddingConfig() error

	// ValidateLLMConfig pings the configured completion provider.
	ValidateLLMConfig() error
}
