// Package tui provides the interactive terminal form for grompt.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/grompt/internal/core/domain"
	"github.com/custodia-labs/grompt/internal/core/ports/driving"
)

// Ports aggregates what the TUI needs from the core.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Rephrase optimises prompts.
	Rephrase driving.RephraseService

	// Provider names the completion provider in labels and messages.
	Provider domain.Provider

	// Credential prefills the masked key field. It may be empty and is
	// only ever held in memory.
	Credential string
}

// NewPorts creates a new Ports aggregate with the given service.
func NewPorts(rephrase driving.RephraseService, provider domain.Provider, credential string) *Ports {
	return &Ports{
		Rephrase:   rephrase,
		Provider:   provider,
		Credential: credential,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Rephrase == nil {
		return ErrMissingRephraseService
	}
	return nil
}
