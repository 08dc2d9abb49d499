package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvider_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		provider Provider
		expected bool
	}{
		{"groq is valid", ProviderGroq, true},
		{"openai is valid", ProviderOpenAI, true},
		{"empty string is invalid", Provider(""), false},
		{"unknown is invalid", Provider("anthropic"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.provider.IsValid())
		})
	}
}

func TestProvider_Description(t *testing.T) {
	assert.Equal(t, "Groq (cloud)", ProviderGroq.Description())
	assert.Equal(t, "OpenAI (cloud)", ProviderOpenAI.Description())
	assert.Equal(t, "Unknown", Provider("x").Description())
}

func TestProvider_Label(t *testing.T) {
	assert.Equal(t, "Groq", ProviderGroq.Label())
	assert.Equal(t, "OpenAI", ProviderOpenAI.Label())
}

func TestProvider_DefaultBaseURL(t *testing.T) {
	assert.Equal(t, "https://api.groq.com/openai/v1", ProviderGroq.DefaultBaseURL())
	assert.Equal(t, "https://api.openai.com/v1", ProviderOpenAI.DefaultBaseURL())
}

func TestProvider_CredentialEnv(t *testing.T) {
	assert.Equal(t, "GROQ_API_KEY", ProviderGroq.CredentialEnv())
	assert.Equal(t, "OPENAI_API_KEY", ProviderOpenAI.CredentialEnv())
}

func TestProviderSettings_ResolvedBaseURL(t *testing.T) {
	p := ProviderSettings{Name: ProviderGroq}
	assert.Equal(t, ProviderGroq.DefaultBaseURL(), p.ResolvedBaseURL())

	p.BaseURL = "http://localhost:8080/v1"
	assert.Equal(t, "http://localhost:8080/v1", p.ResolvedBaseURL())
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	assert.Equal(t, "llama3-groq-70b-8192-tool-use-preview", s.Defaults.Model)
	assert.InDelta(t, 0.5, s.Defaults.Temperature, 1e-9)
	assert.Equal(t, 1024, s.Defaults.MaxTokens)
	assert.Equal(t, ProviderGroq, s.Provider.Name)
	assert.Equal(t, ":5000", s.Server.Addr)
	require.NoError(t, s.Validate())
}

func TestDefaults_NewRequest(t *testing.T) {
	d := Defaults{Model: ModelLlama3_8B, Temperature: 0.3, MaxTokens: 256}

	req := d.NewRequest("hello", "secret")

	assert.Equal(t, "hello", req.Text)
	assert.Equal(t, ModelLlama3_8B, req.Model)
	assert.InDelta(t, 0.3, req.Temperature, 1e-9)
	assert.Equal(t, 256, req.MaxTokens)
	assert.Equal(t, "secret", req.Credential)
}

func TestSettings_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *Settings)
	}{
		{"bad temperature", func(s *Settings) { s.Defaults.Temperature = 2 }},
		{"bad max tokens", func(s *Settings) { s.Defaults.MaxTokens = 0 }},
		{"empty model", func(s *Settings) { s.Defaults.Model = "" }},
		{"unknown provider", func(s *Settings) { s.Provider.Name = "nope" }},
		{"zero timeout", func(s *Settings) { s.Provider.Timeout = 0 }},
		{"empty addr", func(s *Settings) { s.Server.Addr = "" }},
		{"negative rate limit", func(s *Settings) { s.Server.RequestsPerMinute = -1 }},
		{"zero body limit", func(s *Settings) { s.Server.MaxBodyBytes = 0 }},
		{"zero request timeout", func(s *Settings) { s.Server.RequestTimeout = 0 * time.Second }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.mutate(&s)
			assert.ErrorIs(t, s.Validate(), ErrInvalidInput)
		})
	}
}

func TestSettings_Validate_ZeroRateLimitDisables(t *testing.T) {
	s := DefaultSettings()
	s.Server.RequestsPerMinute = 0
	assert.NoError(t, s.Validate())
}
