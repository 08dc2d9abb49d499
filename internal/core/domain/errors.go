package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrMissingCredential indicates no credential was supplied for a call.
	// It is always reported before any network I/O is attempted.
	ErrMissingCredential = errors.New("missing credential")

	// ErrUpstreamAPI indicates the completion endpoint rejected the request
	// or returned a response that could not be used.
	ErrUpstreamAPI = errors.New("upstream API error")

	// ErrNetwork indicates the call could not complete at the transport level
	// (timeout, connection failure, cancellation).
	ErrNetwork = errors.New("network error")
)

// CompletionError is a classified failure of a completion call.
// Kind is one of ErrMissingCredential, ErrUpstreamAPI or ErrNetwork.
type CompletionError struct {
	// Kind is the classification sentinel.
	Kind error

	// StatusCode is the upstream HTTP status, when one was received.
	StatusCode int

	// Message is the human-readable detail, usually from the upstream.
	Message string

	// Err is the underlying cause, if any.
	Err error
}

// NewCompletionError creates a classified completion error.
func NewCompletionError(kind error, message string, cause error) *CompletionError {
	return &CompletionError{Kind: kind, Message: message, Err: cause}
}

// Error implements the error interface.
func (e *CompletionError) Error() string {
	if e.Message == "" {
		return e.Kind.Error()
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s (status %d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes both the classification and the cause to errors.Is/As.
func (e *CompletionError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Classify returns the classification sentinel for err, or nil when err
// is not one of the classified completion failures.
func Classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrMissingCredential):
		return ErrMissingCredential
	case errors.Is(err, ErrUpstreamAPI):
		return ErrUpstreamAPI
	case errors.Is(err, ErrNetwork):
		return ErrNetwork
	default:
		return nil
	}
}

// Describe renders a rephrase failure for display. credentialHint says where
// the front end expected the credential to come from; it may be empty.
// The message never contains the credential itself.
func Describe(err error, provider Provider, credentialHint string) string {
	var ce *CompletionError
	hasDetail := errors.As(err, &ce) && ce.Message != ""

	switch Classify(err) {
	case ErrMissingCredential:
		if credentialHint == "" {
			return fmt.Sprintf("%s API key is required", provider.Label())
		}
		return credentialHint
	case ErrUpstreamAPI:
		if hasDetail {
			return fmt.Sprintf("Error calling %s API: %s", provider.Label(), ce.Message)
		}
		return fmt.Sprintf("Error calling %s API: %v", provider.Label(), err)
	case ErrNetwork:
		if hasDetail {
			return fmt.Sprintf("Could not reach %s API: %s", provider.Label(), ce.Message)
		}
		return fmt.Sprintf("Could not reach %s API: %v", provider.Label(), err)
	default:
		return err.Error()
	}
}
