package analysis

import "time"

// Provider identifies an analysis API backend.
type Provider string

const (
	// ProviderAnthropic is the Anthropic Messages API (the default).
	ProviderAnthropic Provider = "anthropic"
	// ProviderOpenAI is any OpenAI-compatible chat completions API.
	ProviderOpenAI Provider = "openai"
	// ProviderGemini is the Google Gemini API.
	ProviderGemini Provider = "gemini"
)

const (
	// DefaultAnthropicBaseURL is the public Anthropic API endpoint.
	DefaultAnthropicBaseURL = "https://api.anthropic.com"
	// DefaultOpenAIBaseURL is the public OpenAI API endpoint.
	DefaultOpenAIBaseURL = "https://api.openai.com/v1"

	// DefaultAnthropicModel is used when no model is configured.
	DefaultAnthropicModel = "claude-3-7-sonnet-latest"
	// DefaultOpenAIModel is used when no model is configured.
	DefaultOpenAIModel = "gpt-4o"
	// DefaultGeminiModel is used when no model is configured.
	DefaultGeminiModel = "gemini-2.5-flash"

	// DefaultTimeout bounds a single API request.
	DefaultTimeout = 120 * time.Second

	// DefaultMaxTokens caps the response length for providers that require
	// an explicit limit.
	DefaultMaxTokens = 4000
)

// Config holds the analysis client configuration.
type Config struct {
	Provider  Provider
	Model     string
	BaseURL   string
	Timeout   time.Duration
	MaxTokens int
}

// DefaultConfig returns the default configuration (Anthropic).
func DefaultConfig() *Config {
	return &Config{
		Provider:  ProviderAnthropic,
		Model:     DefaultAnthropicModel,
		Timeout:   DefaultTimeout,
		MaxTokens: DefaultMaxTokens,
	}
}

// withDefaults fills zero values so provider constructors can rely on every
// field being set.
func (c *Config) withDefaults() *Config {
	out := *c
	if out.Provider == "" {
		out.Provider = ProviderAnthropic
	}
	if out.Timeout <= 0 {
		out.Timeout = DefaultTimeout
	}
	if out.MaxTokens <= 0 {
		out.MaxTokens = DefaultMaxTokens
	}
	if out.Model == "" {
		switch out.Provider {
		case ProviderOpenAI:
			out.Model = DefaultOpenAIModel
		case ProviderGemini:
			out.Model = DefaultGeminiModel
		default:
			out.Model = DefaultAnthropicModel
		}
	}
	return &out
}
