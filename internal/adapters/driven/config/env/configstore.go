// Package env overlays process environment variables on another ConfigStore.
//
// Variables are read once when the store is created. A .env file in the
// working directory is loaded first; variables already present in the
// environment win over the file.
package env

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/codingconcepts/env"
	"github.com/joho/godotenv"
	"github.com/samber/lo"

	"github.com/custodia-labs/grompt/internal/core/ports/driven"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// Variables holds the recognised environment variables. Strings apply when
// non-empty, numbers when non-zero or listed in Present.
type Variables struct {
	DefaultModel       string  `env:"GROMPT_DEFAULT_MODEL"`
	DefaultTemperature float64 `env:"GROMPT_DEFAULT_TEMPERATURE"`
	DefaultMaxTokens   int     `env:"GROMPT_DEFAULT_MAX_TOKENS"`
	Provider           string  `env:"GROMPT_PROVIDER"`
	BaseURL            string  `env:"GROMPT_BASE_URL"`
	ProviderTimeout    int     `env:"GROMPT_PROVIDER_TIMEOUT"`
	Addr               string  `env:"GROMPT_ADDR"`
	RateLimit          int     `env:"GROMPT_RATE_LIMIT"`
	MaxBodyBytes       int64   `env:"GROMPT_MAX_BODY_BYTES"`
	RequestTimeout     int     `env:"GROMPT_REQUEST_TIMEOUT"`

	// Present names the variables found in the environment, so an explicit
	// zero such as GROMPT_RATE_LIMIT=0 still overrides the base store.
	Present []string
}

type binding struct {
	key   string
	name  string
	value any
	zero  bool
}

// bindings pairs each settings key with its variable.
func (v Variables) bindings() []binding {
	return []binding{
		{"defaults.model", "GROMPT_DEFAULT_MODEL", strings.TrimSpace(v.DefaultModel), strings.TrimSpace(v.DefaultModel) == ""},
		{"defaults.temperature", "GROMPT_DEFAULT_TEMPERATURE", v.DefaultTemperature, v.DefaultTemperature == 0},
		{"defaults.max_tokens", "GROMPT_DEFAULT_MAX_TOKENS", v.DefaultMaxTokens, v.DefaultMaxTokens == 0},
		{"provider.name", "GROMPT_PROVIDER", strings.TrimSpace(v.Provider), strings.TrimSpace(v.Provider) == ""},
		{"provider.base_url", "GROMPT_BASE_URL", strings.TrimSpace(v.BaseURL), strings.TrimSpace(v.BaseURL) == ""},
		{"provider.timeout_seconds", "GROMPT_PROVIDER_TIMEOUT", v.ProviderTimeout, v.ProviderTimeout == 0},
		{"server.addr", "GROMPT_ADDR", strings.TrimSpace(v.Addr), strings.TrimSpace(v.Addr) == ""},
		{"server.requests_per_minute", "GROMPT_RATE_LIMIT", v.RateLimit, v.RateLimit == 0},
		{"server.max_body_bytes", "GROMPT_MAX_BODY_BYTES", int(v.MaxBodyBytes), v.MaxBodyBytes == 0},
		{"server.request_timeout_seconds", "GROMPT_REQUEST_TIMEOUT", v.RequestTimeout, v.RequestTimeout == 0},
	}
}

// variableNames lists every recognised variable.
func variableNames() []string {
	return lo.Map(Variables{}.bindings(), func(b binding, _ int) string { return b.name })
}

// ConfigStore returns environment values for mapped keys and falls through
// to the base store for everything else. Writes always go to the base
// store, so `config set` never captures a value that came from the shell.
type ConfigStore struct {
	base      driven.ConfigStore
	overrides map[string]any
}

// LoadDotEnv loads the given .env files (default ".env") into the process
// environment. Missing files are ignored.
func LoadDotEnv(filenames ...string) error {
	err := godotenv.Load(filenames...)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// NewConfigStore reads the environment and wraps base.
//
// Recognised variables are trimmed in place first and blank ones are
// unset, so `GROMPT_RATE_LIMIT=` in a .env file means "not set".
func NewConfigStore(base driven.ConfigStore) (*ConfigStore, error) {
	var vars Variables
	for _, name := range variableNames() {
		raw, ok := os.LookupEnv(name)
		if !ok {
			continue
		}
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			_ = os.Unsetenv(name)
			continue
		}
		if trimmed != raw {
			_ = os.Setenv(name, trimmed)
		}
		vars.Present = append(vars.Present, name)
	}

	if err := env.Set(&vars); err != nil {
		return nil, fmt.Errorf("environment: %w", err)
	}
	return NewConfigStoreFromVariables(base, vars), nil
}

// NewConfigStoreFromVariables wraps base with explicit variables.
func NewConfigStoreFromVariables(base driven.ConfigStore, vars Variables) *ConfigStore {
	overrides := make(map[string]any)
	for _, b := range vars.bindings() {
		if b.zero && !lo.Contains(vars.Present, b.name) {
			continue
		}
		overrides[b.key] = b.value
	}
	return &ConfigStore{base: base, overrides: overrides}
}

// Overridden reports whether key is supplied by the environment.
func (s *ConfigStore) Overridden(key string) bool {
	_, ok := s.overrides[key]
	return ok
}

// Get retrieves a configuration value by key.
func (s *ConfigStore) Get(key string) (any, bool) {
	if v, ok := s.overrides[key]; ok {
		return v, true
	}
	return s.base.Get(key)
}

// GetString retrieves a string configuration value.
func (s *ConfigStore) GetString(key string) string {
	if v, ok := s.overrides[key]; ok {
		str, _ := v.(string)
		return str
	}
	return s.base.GetString(key)
}

// GetInt retrieves an integer configuration value.
func (s *ConfigStore) GetInt(key string) int {
	if v, ok := s.overrides[key]; ok {
		n, _ := v.(int)
		return n
	}
	return s.base.GetInt(key)
}

// GetFloat retrieves a floating point configuration value.
func (s *ConfigStore) GetFloat(key string) float64 {
	if v, ok := s.overrides[key]; ok {
		switch f := v.(type) {
		case float64:
			return f
		case int:
			return float64(f)
		}
		return 0
	}
	return s.base.GetFloat(key)
}

// Set stores a value in the base store.
func (s *ConfigStore) Set(key string, value any) error {
	return s.base.Set(key, value)
}

// Save persists the base store.
func (s *ConfigStore) Save() error {
	return s.base.Save()
}

// Load reloads the base store. Environment values are not re-read.
func (s *ConfigStore) Load() error {
	return s.base.Load()
}

// Path returns the base store's path.
func (s *ConfigStore) Path() string {
	return s.base.Path()
}
