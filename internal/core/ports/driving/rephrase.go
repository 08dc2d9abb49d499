package driving

import (
	"context"

	"github.com/custodia-labs/grompt/internal/core/domain"
)

// RephraseService optimises user requests into structured prompts.
type RephraseService interface {
	// Rephrase builds the instruction for req.Text and sends it to the
	// completion endpoint exactly once. An empty model or zero max tokens
	// is filled from the configured defaults.
	Rephrase(ctx context.Context, req domain.RephraseRequest) (string, error)

	// Defaults returns the configured generation defaults.
	Defaults() domain.Defaults

	// Models returns the selectable models in display order.
	Models() []domain.Model
}
