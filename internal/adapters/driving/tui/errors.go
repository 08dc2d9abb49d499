package tui

import "errors"

// ErrMissingRephraseService is returned when the rephrase service is not provided.
var ErrMissingRephraseService = errors.New("tui: rephrase service is required")

// ErrInvalidPorts is returned when ports validation fails.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")
