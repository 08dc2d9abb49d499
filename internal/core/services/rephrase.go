package services

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/grompt/internal/core/domain"
	"github.com/custodia-labs/grompt/internal/core/ports/driven"
	"github.com/custodia-labs/grompt/internal/core/ports/driving"
	"github.com/custodia-labs/grompt/internal/logger"
)

// Ensure RephraseService implements the interface.
var _ driving.RephraseService = (*RephraseService)(nil)

// RephraseService turns user requests into optimised prompts using a
// completion client. It holds no per-request state and is safe for
// concurrent use.
type RephraseService struct {
	client   driven.CompletionClient
	defaults domain.Defaults
}

// NewRephraseService creates a new rephrase service.
func NewRephraseService(client driven.CompletionClient, defaults domain.Defaults) *RephraseService {
	return &RephraseService{
		client:   client,
		defaults: defaults,
	}
}

// Rephrase optimises req.Text with a single completion call.
func (s *RephraseService) Rephrase(ctx context.Context, req domain.RephraseRequest) (string, error) {
	logger.Section("Rephrase")

	if req.Model == "" {
		req.Model = s.defaults.Model
	}
	if req.MaxTokens == 0 {
		req.MaxTokens = s.defaults.MaxTokens
	}

	logger.Debug("Model: %s, Temperature: %.2f, MaxTokens: %d", req.Model, req.Temperature, req.MaxTokens)
	logger.Debug("Credential: %s", logger.Credential(req.Credential))

	if req.Credential == "" {
		return "", domain.NewCompletionError(domain.ErrMissingCredential, "", nil)
	}
	if err := req.Validate(); err != nil {
		return "", err
	}
	if s.client == nil {
		return "", fmt.Errorf("completion client not configured")
	}

	instruction := BuildInstruction(req.Text)
	logger.Debug("Instruction: %d bytes", len(instruction))

	start := time.Now()
	result, err := s.client.Complete(ctx, domain.CompletionRequest{
		Instruction: instruction,
		Model:       req.Model,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
		Credential:  req.Credential,
	})
	if err != nil {
		logger.Warn("Completion failed after %s: %v", time.Since(start).Round(time.Millisecond), err)
		return "", err
	}

	logger.Debug("Completion returned %d bytes in %s", len(result), time.Since(start).Round(time.Millisecond))
	return result, nil
}

// Defaults returns the configured generation defaults.
func (s *RephraseService) Defaults() domain.Defaults {
	return s.defaults
}

// Models returns the selectable models.
func (s *RephraseService) Models() []domain.Model {
	return domain.SupportedModels()
}
