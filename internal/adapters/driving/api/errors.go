// Package api provides the HTTP adapter for Grompt. POST /rephrase is the
// single rephrase endpoint; /health, /models and /metrics support operators.
package api

import "errors"

// ErrMissingRephraseService is returned when the rephrase service is not provided.
var ErrMissingRephraseService = errors.New("api: rephrase service is required")
