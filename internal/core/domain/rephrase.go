package domain

import "fmt"

// Bounds for the generation parameters accepted by the front ends.
const (
	MinTemperature  = 0.0
	MaxTemperature  = 1.0
	TemperatureStep = 0.1
	MinMaxTokens    = 1
	MaxMaxTokens    = 32768
)

// SystemMessage is the static system role message sent with every
// completion request.
const SystemMessage = "You are a professional prompt engineer, expert at rephrasing and optimizing prompts."

// RephraseRequest is one prompt optimisation call.
// It lives for the duration of the call and is never stored.
type RephraseRequest struct {
	// Text is the raw user request to optimise.
	Text string

	// Model is the hosted model identifier.
	Model string

	// Temperature controls sampling randomness.
	Temperature float64

	// MaxTokens is the completion token budget.
	MaxTokens int

	// Credential is the secret authorising the call.
	Credential string
}

// Validate checks the generation parameters are within bounds.
// The text and credential are not checked here.
func (r RephraseRequest) Validate() error {
	if r.Model == "" {
		return fmt.Errorf("%w: model is required", ErrInvalidInput)
	}
	if r.Temperature < MinTemperature || r.Temperature > MaxTemperature {
		return fmt.Errorf("%w: temperature %.2f out of range [%.1f, %.1f]",
			ErrInvalidInput, r.Temperature, MinTemperature, MaxTemperature)
	}
	if r.MaxTokens < MinMaxTokens || r.MaxTokens > MaxMaxTokens {
		return fmt.Errorf("%w: max tokens %d out of range [%d, %d]",
			ErrInvalidInput, r.MaxTokens, MinMaxTokens, MaxMaxTokens)
	}
	return nil
}

// CompletionRequest is the payload handed to a completion client.
type CompletionRequest struct {
	// Instruction is the fully composed instruction text.
	Instruction string

	// Model is the hosted model identifier.
	Model string

	// Temperature controls sampling randomness.
	Temperature float64

	// MaxTokens is the completion token budget.
	MaxTokens int

	// Credential is the secret authorising the call.
	Credential string
}

// Model describes a selectable hosted model.
type Model struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ContextSize int    `json:"context_size"`
}

// Known model identifiers.
const (
	ModelLlama3Groq70BToolUse = "llama3-groq-70b-8192-tool-use-preview"
	ModelLlama3Groq8BToolUse  = "llama3-groq-8b-8192-tool-use-preview"
	ModelLlama3_70B           = "llama3-70b-8192"
	ModelLlama3_8B            = "llama3-8b-8192"
)

// SupportedModels returns the models offered by the interactive surfaces,
// in display order.
func SupportedModels() []Model {
	return []Model{
		{ID: ModelLlama3Groq70BToolUse, Name: "Llama 3 Groq 70B Tool Use (preview)", ContextSize: 8192},
		{ID: ModelLlama3Groq8BToolUse, Name: "Llama 3 Groq 8B Tool Use (preview)", ContextSize: 8192},
		{ID: ModelLlama3_70B, Name: "Llama 3 70B", ContextSize: 8192},
		{ID: ModelLlama3_8B, Name: "Llama 3 8B", ContextSize: 8192},
	}
}
