package mcp

import (
	"github.com/custodia-labs/grompt/internal/core/domain"
	"github.com/custodia-labs/grompt/internal/core/ports/driving"
)

// Ports aggregates what the MCP server needs from the application core.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Rephrase performs the rephrase call.
	Rephrase driving.RephraseService

	// Credential returns the API key for a tool call. It is consulted on
	// every call and never cached. Nil means no credential is available.
	Credential func() string

	// Provider names the completion provider in error messages.
	Provider domain.Provider

	// CredentialHint tells the user where the credential should come from.
	CredentialHint string
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Rephrase == nil {
		return ErrMissingRephraseService
	}
	// Credential is optional; calls without one fail with a clear message
	return nil
}

func (p *Ports) credential() string {
	if p.Credential == nil {
		return ""
	}
	return p.Credential()
}
