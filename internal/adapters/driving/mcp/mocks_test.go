package mcp

import (
	"context"

	"github.com/custodia-labs/grompt/internal/core/domain"
)

// mockRephraseService is a mock implementation of driving.RephraseService.
type mockRephraseService struct {
	result   string
	err      error
	lastReq  domain.RephraseRequest
	calls    int
	defaults domain.Defaults
}

func newMockRephraseService() *mockRephraseService {
	return &mockRephraseService{
		result: "rephrased",
		defaults: domain.Defaults{
			Model:       domain.ModelLlama3Groq70BToolUse,
			Temperature: 0.5,
			MaxTokens:   1024,
		},
	}
}

func (m *mockRephraseService) Rephrase(_ context.Context, req domain.RephraseRequest) (string, error) {
	m.calls++
	m.lastReq = req
	return m.result, m.err
}

func (m *mockRephraseService) Defaults() domain.Defaults {
	return m.defaults
}

func (m *mockRephraseService) Models() []domain.Model {
	return domain.SupportedModels()
}
