package driven

import "context"

// Generator is the black-box text-generation capability used to turn
// retrieved context into natural-language answers. The core only builds
// prompts and packages retrieved chunks for it; model selection happens at
// configuration time, never via runtime inspection of responses.
//
// Implementations may include:
//   - Groq (OpenAI-compatible chat completions)
//   - Gemini (Google GenAI SDK)
type Generator interface {
	// Generate produces a completion for prompt under an optional system
	// prompt. Transport, timeout and auth failures are reported as
	// domain.ErrProviderUnavailable; backend-side generation errors as
	// domain.ErrGenerationFailed.
	Generate(ctx context.Context, prompt, systemPrompt string) (string, error)

	// ModelName returns the name of the generation model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight
	// test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
