package driven

import "context"

// LLMService is the completion capability: prompt in, text out.
//
// Implementations include Ollama, OpenAI-compatible servers, Anthropic, and Gemini.
type LLMService interface {
	// Generate produces a completion for prompt. It blocks until the model
	// answers, the context is cancelled, or the configured timeout elapses.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable with a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64

	// StopWords are sequences that stop generation when encountered.
	StopWords []string
}
