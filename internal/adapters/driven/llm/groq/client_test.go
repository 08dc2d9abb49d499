package groq

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/grompt/internal/core/domain"
)

// capturedRequest is the subset of the chat completion body the tests check.
type capturedRequest struct {
	Model       string   `json:"model"`
	Temperature *float64 `json:"temperature"`
	MaxTokens   int      `json:"max_tokens"`
	Messages    []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func completionBody(content string) string {
	body, _ := json.Marshal(map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   "llama3-70b-8192",
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": content},
		}},
	})
	return string(body)
}

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		handler(w, r)
	}))
	t.Cleanup(server.Close)
	return server, &hits
}

func testRequest(credential string) domain.CompletionRequest {
	return domain.CompletionRequest{
		Instruction: "rephrase this",
		Model:       domain.ModelLlama3_70B,
		Temperature: 0.5,
		MaxTokens:   1024,
		Credential:  credential,
	}
}

func TestNewClient_Defaults(t *testing.T) {
	client := NewClient(Config{})

	require.NotNil(t, client)
	assert.Equal(t, DefaultBaseURL, client.BaseURL())
}

func TestClient_Complete_Success(t *testing.T) {
	var got capturedRequest
	var auth, path string
	server, hits := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		path = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionBody("  foo bar  \n")))
	})
	client := NewClient(Config{BaseURL: server.URL})

	result, err := client.Complete(context.Background(), testRequest("gsk_test"))

	require.NoError(t, err)
	assert.Equal(t, "foo bar", result)
	assert.Equal(t, int32(1), hits.Load())
	assert.Equal(t, "/chat/completions", path)
	assert.Equal(t, "Bearer gsk_test", auth)
	assert.Equal(t, domain.ModelLlama3_70B, got.Model)
	require.NotNil(t, got.Temperature)
	assert.InDelta(t, 0.5, *got.Temperature, 1e-9)
	assert.Equal(t, 1024, got.MaxTokens)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, domain.SystemMessage, got.Messages[0].Content)
	assert.Equal(t, "user", got.Messages[1].Role)
	assert.Equal(t, "rephrase this", got.Messages[1].Content)
}

func TestClient_Complete_ZeroTemperatureIsSent(t *testing.T) {
	var got capturedRequest
	server, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionBody("ok")))
	})
	client := NewClient(Config{BaseURL: server.URL})

	req := testRequest("key")
	req.Temperature = 0
	_, err := client.Complete(context.Background(), req)

	require.NoError(t, err)
	require.NotNil(t, got.Temperature)
	assert.Zero(t, *got.Temperature)
}

func TestClient_Complete_MissingCredential(t *testing.T) {
	server, hits := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	client := NewClient(Config{BaseURL: server.URL})

	_, err := client.Complete(context.Background(), testRequest(""))

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMissingCredential)
	assert.Equal(t, int32(0), hits.Load())
}

func TestClient_Complete_UpstreamError(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"unauthorized", http.StatusUnauthorized},
		{"not found", http.StatusNotFound},
		{"rate limited", http.StatusTooManyRequests},
		{"server error", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, hits := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"error":{"message":"Invalid API Key","type":"invalid_request_error"}}`))
			})
			client := NewClient(Config{BaseURL: server.URL})

			_, err := client.Complete(context.Background(), testRequest("bad"))

			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrUpstreamAPI)
			var ce *domain.CompletionError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, tt.status, ce.StatusCode)
			assert.NotEmpty(t, ce.Message)
			// No retries, even for retryable statuses
			assert.Equal(t, int32(1), hits.Load())
		})
	}
}

func TestClient_Complete_EmptyChoices(t *testing.T) {
	server, _ := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","object":"chat.completion","created":1,"model":"m","choices":[]}`))
	})
	client := NewClient(Config{BaseURL: server.URL})

	_, err := client.Complete(context.Background(), testRequest("key"))

	assert.ErrorIs(t, err, domain.ErrUpstreamAPI)
}

func TestClient_Complete_Timeout(t *testing.T) {
	server, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})
	client := NewClient(Config{BaseURL: server.URL, Timeout: 50 * time.Millisecond})

	_, err := client.Complete(context.Background(), testRequest("key"))

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNetwork)
}

func TestClient_Complete_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	baseURL := server.URL
	server.Close()
	client := NewClient(Config{BaseURL: baseURL})

	_, err := client.Complete(context.Background(), testRequest("key"))

	assert.ErrorIs(t, err, domain.ErrNetwork)
}

func TestClient_Complete_Cancelled(t *testing.T) {
	server, _ := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionBody("late")))
	})
	client := NewClient(Config{BaseURL: server.URL})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Complete(ctx, testRequest("key"))

	assert.ErrorIs(t, err, domain.ErrNetwork)
}

func TestClient_Complete_CredentialIsPerCall(t *testing.T) {
	server, hits := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionBody(r.Header.Get("Authorization"))))
	})
	client := NewClient(Config{BaseURL: server.URL})

	first, err := client.Complete(context.Background(), testRequest("key-one"))
	require.NoError(t, err)
	second, err := client.Complete(context.Background(), testRequest("key-two"))
	require.NoError(t, err)

	assert.Equal(t, "Bearer key-one", first)
	assert.Equal(t, "Bearer key-two", second)
	assert.Equal(t, int32(2), hits.Load())
}

func TestClient_Complete_DropsOpenAIAccountHeaders(t *testing.T) {
	t.Setenv("OPENAI_ORG_ID", "org-from-env")
	t.Setenv("OPENAI_PROJECT_ID", "proj-from-env")

	var header http.Header
	server, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		header = r.Header.Clone()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionBody("ok")))
	})
	client := NewClient(Config{BaseURL: server.URL})

	_, err := client.Complete(context.Background(), testRequest("gsk_test"))

	require.NoError(t, err)
	assert.Empty(t, header.Values("OpenAI-Organization"))
	assert.Empty(t, header.Values("OpenAI-Project"))
	assert.Equal(t, "Bearer gsk_test", header.Get("Authorization"))
}
