package domain

import (
	"fmt"
	"time"
)

const unknownDescription = "Unknown"

// Provider identifies an OpenAI-compatible completion provider.
type Provider string

// Available providers.
const (
	// ProviderGroq is the Groq cloud API.
	ProviderGroq Provider = "groq"

	// ProviderOpenAI is the OpenAI cloud API.
	ProviderOpenAI Provider = "openai"
)

// IsValid returns true if the provider is recognised.
func (p Provider) IsValid() bool {
	switch p {
	case ProviderGroq, ProviderOpenAI:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (p Provider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p Provider) Description() string {
	switch p {
	case ProviderGroq:
		return "Groq (cloud)"
	case ProviderOpenAI:
		return "OpenAI (cloud)"
	default:
		return unknownDescription
	}
}

// Label returns the short display name used in error messages.
func (p Provider) Label() string {
	switch p {
	case ProviderOpenAI:
		return "OpenAI"
	default:
		return "Groq"
	}
}

// DefaultBaseURL returns the API base URL for the provider.
func (p Provider) DefaultBaseURL() string {
	switch p {
	case ProviderOpenAI:
		return "https://api.openai.com/v1"
	default:
		return "https://api.groq.com/openai/v1"
	}
}

// CredentialEnv returns the environment variable the CLI reads the
// credential from.
func (p Provider) CredentialEnv() string {
	switch p {
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	default:
		return "GROQ_API_KEY"
	}
}

// Defaults holds the generation parameters applied when a caller
// does not supply its own.
type Defaults struct {
	// Model is the default hosted model identifier.
	Model string

	// Temperature is the default sampling temperature.
	Temperature float64

	// MaxTokens is the default completion token budget.
	MaxTokens int
}

// NewRequest creates a request for text populated with these defaults.
func (d Defaults) NewRequest(text, credential string) RephraseRequest {
	return RephraseRequest{
		Text:        text,
		Model:       d.Model,
		Temperature: d.Temperature,
		MaxTokens:   d.MaxTokens,
		Credential:  credential,
	}
}

// ProviderSettings holds completion endpoint configuration.
type ProviderSettings struct {
	// Name is the provider.
	Name Provider

	// BaseURL overrides the provider's default base URL when set.
	BaseURL string

	// Timeout bounds a single completion call.
	Timeout time.Duration
}

// ResolvedBaseURL returns BaseURL, falling back to the provider default.
func (p ProviderSettings) ResolvedBaseURL() string {
	if p.BaseURL != "" {
		return p.BaseURL
	}
	return p.Name.DefaultBaseURL()
}

// ServerSettings holds HTTP surface configuration.
type ServerSettings struct {
	// Addr is the listen address.
	Addr string

	// RequestsPerMinute is the per-client rate limit. Zero disables it.
	RequestsPerMinute int

	// MaxBodyBytes bounds the request body size.
	MaxBodyBytes int64

	// RequestTimeout bounds a single HTTP request.
	RequestTimeout time.Duration
}

// Settings is the process-wide configuration snapshot.
// It is built once at startup and never mutated afterwards.
type Settings struct {
	Defaults Defaults
	Provider ProviderSettings
	Server   ServerSettings
}

// DefaultSettings returns the hardcoded fallbacks.
func DefaultSettings() Settings {
	return Settings{
		Defaults: Defaults{
			Model:       ModelLlama3Groq70BToolUse,
			Temperature: 0.5,
			MaxTokens:   1024,
		},
		Provider: ProviderSettings{
			Name:    ProviderGroq,
			Timeout: 60 * time.Second,
		},
		Server: ServerSettings{
			Addr:              ":5000",
			RequestsPerMinute: 60,
			MaxBodyBytes:      64 * 1024,
			RequestTimeout:    90 * time.Second,
		},
	}
}

// Validate checks the settings are usable.
func (s Settings) Validate() error {
	probe := s.Defaults.NewRequest("", "")
	if err := probe.Validate(); err != nil {
		return fmt.Errorf("defaults: %w", err)
	}
	if !s.Provider.Name.IsValid() {
		return fmt.Errorf("%w: unknown provider %q", ErrInvalidInput, s.Provider.Name)
	}
	if s.Provider.Timeout <= 0 {
		return fmt.Errorf("%w: provider timeout must be positive", ErrInvalidInput)
	}
	if s.Server.Addr == "" {
		return fmt.Errorf("%w: server address is required", ErrInvalidInput)
	}
	if s.Server.RequestsPerMinute < 0 {
		return fmt.Errorf("%w: rate limit must not be negative", ErrInvalidInput)
	}
	if s.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("%w: max body bytes must be positive", ErrInvalidInput)
	}
	if s.Server.RequestTimeout <= 0 {
		return fmt.Errorf("%w: request timeout must be positive", ErrInvalidInput)
	}
	return nil
}
