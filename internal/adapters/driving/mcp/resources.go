package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// URIScheme is the custom URI scheme for Grompt resources.
	uriScheme = "grompt://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "models",
		Name:        "models",
		Description: "Models that can be used for rephrasing",
		MIMEType:    "application/json",
	}, s.handleModelsResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "defaults",
		Name:        "defaults",
		Description: "Generation defaults applied when a call omits them",
		MIMEType:    "application/json",
	}, s.handleDefaultsResource)
}

// handleModelsResource returns the selectable models.
func (s *Server) handleModelsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	return jsonResource(req.Params.URI, s.ports.Rephrase.Models())
}

// handleDefaultsResource returns the generation defaults.
func (s *Server) handleDefaultsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	d := s.ports.Rephrase.Defaults()
	return jsonResource(req.Params.URI, map[string]any{
		"model":       d.Model,
		"temperature": d.Temperature,
		"max_tokens":  d.MaxTokens,
	})
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshaling %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
