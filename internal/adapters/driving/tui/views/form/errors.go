package form

import "errors"

// Error definitions for the form view.
var (
	// ErrNoRephraseService indicates that no rephrase service was provided.
	ErrNoRephraseService = errors.New("rephrase service is required")
)
