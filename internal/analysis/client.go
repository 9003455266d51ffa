// Package analysis submits exported note text to a remote analysis API and
// normalizes provider responses into a single result shape.
package analysis

import (
	"context"
	"fmt"
)

// verifyPrompt is the minimal message used to check an API key before a
// batch. Cheapest possible call that still exercises authentication.
const verifyPrompt = "Test"

// Client is an abstraction over analysis API providers.
type Client interface {
	// Analyze submits a prompt and note content and returns the normalized
	// result. Returned errors are APIError (possibly retryable) or
	// ParseError (terminal).
	Analyze(ctx context.Context, prompt, content string) (*Result, error)

	// Verify sends a minimal request to confirm the API key is usable.
	Verify(ctx context.Context) error

	// Model returns the model name requests are sent to.
	Model() string

	// Close releases any resources held by the client.
	Close() error
}

// NewClient creates a client for the configured provider. A nil config
// selects the defaults.
func NewClient(ctx context.Context, config *Config, apiKey string) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch config.Provider {
	case ProviderOpenAI:
		return NewOpenAIClient(config, apiKey)
	case ProviderGemini:
		return NewGeminiClient(ctx, config, apiKey)
	case ProviderAnthropic, "":
		return NewAnthropicClient(config, apiKey)
	default:
		return nil, fmt.Errorf("unknown analysis provider: %q", config.Provider)
	}
}
