// Package mcp provides an MCP (Model Context Protocol) server adapter for Grompt.
// It lets AI assistants rephrase prompts through Grompt as a tool.
package mcp

import "errors"

// ErrMissingRephraseService is returned when the rephrase service is not provided.
var ErrMissingRephraseService = errors.New("mcp: rephrase service is required")
