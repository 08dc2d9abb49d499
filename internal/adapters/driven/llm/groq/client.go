// Package groq provides the completion client for Groq's OpenAI-compatible
// chat completions API. Any OpenAI-compatible base URL works.
package groq

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/custodia-labs/grompt/internal/core/domain"
	"github.com/custodia-labs/grompt/internal/core/ports/driven"
	"github.com/custodia-labs/grompt/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.CompletionClient = (*Client)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://api.groq.com/openai/v1"
	DefaultTimeout = 60 * time.Second
)

// Config holds configuration for the completion client.
// The credential is deliberately absent: it is supplied on every call.
type Config struct {
	// BaseURL is the API base URL (default: https://api.groq.com/openai/v1).
	BaseURL string

	// Timeout bounds a single request (default: 60s).
	Timeout time.Duration

	// HTTPClient overrides the transport. Timeout is ignored when set.
	HTTPClient *http.Client
}

// Client performs one chat completion per call. It keeps no per-call state
// and is safe for concurrent use.
type Client struct {
	sdk     openai.Client
	baseURL string
}

// NewClient creates a completion client.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{
		sdk: openai.NewClient(
			option.WithBaseURL(cfg.BaseURL),
			option.WithHTTPClient(httpClient),
			option.WithMaxRetries(0),
			// Drop the account headers the SDK takes from OPENAI_ORG_ID and
			// OPENAI_PROJECT_ID.
			option.WithHeaderDel("OpenAI-Organization"),
			option.WithHeaderDel("OpenAI-Project"),
		),
		baseURL: cfg.BaseURL,
	}
}

// BaseURL returns the endpoint the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Complete sends the instruction as a single chat completion and returns the
// first choice's content with surrounding whitespace removed.
func (c *Client) Complete(ctx context.Context, req domain.CompletionRequest) (string, error) {
	if req.Credential == "" {
		return "", domain.NewCompletionError(domain.ErrMissingCredential, "", nil)
	}

	params := openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(domain.SystemMessage),
			openai.UserMessage(req.Instruction),
		},
		Model:       openai.ChatModel(req.Model),
		Temperature: openai.Float(req.Temperature),
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}

	logger.Debug("POST %s/chat/completions model=%s", c.baseURL, req.Model)

	completion, err := c.sdk.Chat.Completions.New(ctx, params, option.WithAPIKey(req.Credential))
	if err != nil {
		return "", classify(err)
	}

	if len(completion.Choices) == 0 {
		return "", domain.NewCompletionError(domain.ErrUpstreamAPI, "response contained no choices", nil)
	}

	return strings.TrimSpace(completion.Choices[0].Message.Content), nil
}

// classify maps an SDK error onto the completion error taxonomy.
func classify(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		message := apiErr.Message
		if message == "" {
			message = http.StatusText(apiErr.StatusCode)
		}
		ce := domain.NewCompletionError(domain.ErrUpstreamAPI, message, err)
		ce.StatusCode = apiErr.StatusCode
		return ce
	}

	if isNetworkError(err) {
		return domain.NewCompletionError(domain.ErrNetwork, err.Error(), err)
	}

	// Anything else is a response the SDK could not decode.
	return domain.NewCompletionError(domain.ErrUpstreamAPI, err.Error(), err)
}

func isNetworkError(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
