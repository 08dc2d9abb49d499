package mcp

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/grompt/internal/core/domain"
)

// RephraseInput is the input schema for the rephrase_prompt tool.
type RephraseInput struct {
	Prompt      string   `json:"prompt" jsonschema:"the request to rewrite into a clearer, more effective prompt"`
	Model       string   `json:"model,omitempty" jsonschema:"model identifier (default from configuration)"`
	Temperature *float64 `json:"temperature,omitempty" jsonschema:"sampling temperature between 0 and 1"`
	MaxTokens   int      `json:"max_tokens,omitempty" jsonschema:"maximum tokens to generate"`
}

// RephraseOutput is the output schema for the rephrase_prompt tool.
type RephraseOutput struct {
	Rephrased string `json:"rephrased"`
	Model     string `json:"model"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "rephrase_prompt",
		Description: "Rewrite a free-form request into a well-structured, effective LLM prompt",
	}, s.handleRephrase)
}

// handleRephrase handles the rephrase_prompt tool invocation.
func (s *Server) handleRephrase(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RephraseInput,
) (*mcp.CallToolResult, RephraseOutput, error) {
	req := s.ports.Rephrase.Defaults().NewRequest(input.Prompt, s.ports.credential())
	if input.Model != "" {
		req.Model = input.Model
	}
	if input.Temperature != nil {
		req.Temperature = *input.Temperature
	}
	if input.MaxTokens > 0 {
		req.MaxTokens = input.MaxTokens
	}

	rephrased, err := s.ports.Rephrase.Rephrase(ctx, req)
	if err != nil {
		return nil, RephraseOutput{}, errors.New(domain.Describe(err, s.provider(), s.ports.CredentialHint))
	}

	return nil, RephraseOutput{Rephrased: rephrased, Model: req.Model}, nil
}

func (s *Server) provider() domain.Provider {
	if s.ports.Provider.IsValid() {
		return s.ports.Provider
	}
	return domain.ProviderGroq
}
