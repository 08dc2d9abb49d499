package driven

import (
	"context"

	"github.com/custodia-labs/grompt/internal/core/domain"
)

// CompletionClient issues a single request to a hosted chat-completion
// endpoint.
//
// Implementations must:
//   - return domain.ErrMissingCredential without any network I/O when
//     req.Credential is empty
//   - issue exactly one request per call, with no retries
//   - return the first choice's content with surrounding whitespace trimmed
//   - classify failures as domain.ErrUpstreamAPI or domain.ErrNetwork
//   - never log or retain the credential
type CompletionClient interface {
	// Complete sends the instruction and returns the generated text.
	Complete(ctx context.Context, req domain.CompletionRequest) (string, error)
}
