package llm

import "context"

// Provider defines the interface for text-generation providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Generate produces a completion for a single user prompt
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// GenerateRequest contains the input for a single generation call
type GenerateRequest struct {
	// Prompt is the full prompt text (instruction and payload already
	// concatenated by the caller). It is sent as a single user message.
	Prompt string

	// Model is the specific model to use (provider-specific); empty means
	// the configured default
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// GenerateResponse contains the provider's output
type GenerateResponse struct {
	// Text is the generated text
	Text string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds generation provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama"
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxTokens for response generation
	MaxTokens int
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:  "anthropic",
		Model:     "claude-3-5-sonnet-20241022",
		Timeout:   60,
		MaxTokens: 1000,
	}
}
