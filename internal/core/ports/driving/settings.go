package driving

import "github.com/custodia-labs/grompt/internal/core/domain"

// SettingsService reads and updates application settings.
type SettingsService interface {
	// Get builds the settings snapshot from stored values and defaults.
	Get() (*domain.Settings, error)

	// Set validates and persists a single setting.
	Set(key, value string) error

	// Keys returns the settable keys in display order.
	Keys() []string

	// GetDefaults returns the hardcoded default settings.
	GetDefaults() domain.Settings

	// Path returns the location of the settings file.
	Path() string
}
