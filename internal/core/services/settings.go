package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/custodia-labs/grompt/internal/core/domain"
	"github.com/custodia-labs/grompt/internal/core/ports/driven"
	"github.com/custodia-labs/grompt/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	KeyDefaultModel       = "defaults.model"
	KeyDefaultTemperature = "defaults.temperature"
	KeyDefaultMaxTokens   = "defaults.max_tokens"
	KeyProviderName       = "provider.name"
	KeyProviderBaseURL    = "provider.base_url"
	KeyProviderTimeout    = "provider.timeout_seconds"
	KeyServerAddr         = "server.addr"
	KeyServerRateLimit    = "server.requests_per_minute"
	KeyServerMaxBody      = "server.max_body_bytes"
	KeyServerTimeout      = "server.request_timeout_seconds"
)

type keyKind int

const (
	kindString keyKind = iota
	kindInt
	kindFloat
)

var settableKeys = []string{
	KeyDefaultModel,
	KeyDefaultTemperature,
	KeyDefaultMaxTokens,
	KeyProviderName,
	KeyProviderBaseURL,
	KeyProviderTimeout,
	KeyServerAddr,
	KeyServerRateLimit,
	KeyServerMaxBody,
	KeyServerTimeout,
}

var keyKinds = map[string]keyKind{
	KeyDefaultModel:       kindString,
	KeyDefaultTemperature: kindFloat,
	KeyDefaultMaxTokens:   kindInt,
	KeyProviderName:       kindString,
	KeyProviderBaseURL:    kindString,
	KeyProviderTimeout:    kindInt,
	KeyServerAddr:         kindString,
	KeyServerRateLimit:    kindInt,
	KeyServerMaxBody:      kindInt,
	KeyServerTimeout:      kindInt,
}

// secretMarkers flag keys that look like credentials.
var secretMarkers = []string{"api_key", "apikey", "access_token", "secret", "credential", "password"}

// SettingsService builds the settings snapshot from a config store.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
	}
}

// Get retrieves current application settings.
// Missing keys fall back to the hardcoded defaults.
func (s *SettingsService) Get() (*domain.Settings, error) {
	defaults := domain.DefaultSettings()

	settings := &domain.Settings{
		Defaults: domain.Defaults{
			Model:       s.getString(KeyDefaultModel, defaults.Defaults.Model),
			Temperature: s.getFloat(KeyDefaultTemperature, defaults.Defaults.Temperature),
			MaxTokens:   s.getInt(KeyDefaultMaxTokens, defaults.Defaults.MaxTokens),
		},
		Provider: domain.ProviderSettings{
			Name:    s.getProvider(defaults.Provider.Name),
			BaseURL: s.configStore.GetString(KeyProviderBaseURL), // No default - empty selects the provider URL
			Timeout: s.getSeconds(KeyProviderTimeout, defaults.Provider.Timeout),
		},
		Server: domain.ServerSettings{
			Addr:              s.getString(KeyServerAddr, defaults.Server.Addr),
			RequestsPerMinute: s.getInt(KeyServerRateLimit, defaults.Server.RequestsPerMinute),
			MaxBodyBytes:      int64(s.getInt(KeyServerMaxBody, int(defaults.Server.MaxBodyBytes))),
			RequestTimeout:    s.getSeconds(KeyServerTimeout, defaults.Server.RequestTimeout),
		},
	}

	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings in %s: %w", s.configStore.Path(), err)
	}

	return settings, nil
}

// Set validates and persists a single setting.
// Credentials are never accepted.
func (s *SettingsService) Set(key, value string) error {
	if isSecretKey(key) {
		return fmt.Errorf("%w: %q looks like a credential; credentials are never stored",
			domain.ErrInvalidInput, key)
	}
	if !lo.Contains(settableKeys, key) {
		return fmt.Errorf("%w: unknown setting %q (valid: %s)",
			domain.ErrInvalidInput, key, strings.Join(settableKeys, ", "))
	}

	typed, err := parseValue(keyKinds[key], strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrInvalidInput, key, err)
	}

	base := domain.DefaultSettings()
	if current, err := s.Get(); err == nil {
		base = *current
	}
	candidate := applyValue(base, key, typed)
	if err := candidate.Validate(); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}

	if err := s.configStore.Set(key, typed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Keys returns the settable keys in display order.
func (s *SettingsService) Keys() []string {
	return append([]string(nil), settableKeys...)
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.Settings {
	return domain.DefaultSettings()
}

// Path returns the settings file location.
func (s *SettingsService) Path() string {
	return s.configStore.Path()
}

func isSecretKey(key string) bool {
	lower := strings.ToLower(key)
	return lo.SomeBy(secretMarkers, func(marker string) bool {
		return strings.Contains(lower, marker)
	})
}

func parseValue(kind keyKind, value string) (any, error) {
	switch kind {
	case kindInt:
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("expected an integer, got %q", value)
		}
		return n, nil
	case kindFloat:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("expected a number, got %q", value)
		}
		return f, nil
	default:
		return value, nil
	}
}

func applyValue(settings domain.Settings, key string, value any) domain.Settings {
	switch key {
	case KeyDefaultModel:
		settings.Defaults.Model = value.(string)
	case KeyDefaultTemperature:
		settings.Defaults.Temperature = value.(float64)
	case KeyDefaultMaxTokens:
		settings.Defaults.MaxTokens = value.(int)
	case KeyProviderName:
		settings.Provider.Name = domain.Provider(value.(string))
	case KeyProviderBaseURL:
		settings.Provider.BaseURL = value.(string)
	case KeyProviderTimeout:
		settings.Provider.Timeout = time.Duration(value.(int)) * time.Second
	case KeyServerAddr:
		settings.Server.Addr = value.(string)
	case KeyServerRateLimit:
		settings.Server.RequestsPerMinute = value.(int)
	case KeyServerMaxBody:
		settings.Server.MaxBodyBytes = int64(value.(int))
	case KeyServerTimeout:
		settings.Server.RequestTimeout = time.Duration(value.(int)) * time.Second
	}
	return settings
}

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getSeconds(key string, defaultVal time.Duration) time.Duration {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return time.Duration(s.configStore.GetInt(key)) * time.Second
}

func (s *SettingsService) getProvider(defaultVal domain.Provider) domain.Provider {
	val := s.configStore.GetString(KeyProviderName)
	if val == "" {
		return defaultVal
	}
	return domain.Provider(val)
}
