package analysis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_DefaultsToAnthropic(t *testing.T) {
	client, err := NewClient(context.Background(), nil, testAPIKey)
	require.NoError(t, err)
	defer client.Close()

	_, ok := client.(*AnthropicClient)
	assert.True(t, ok, "nil config should produce an Anthropic client")
	assert.Equal(t, DefaultAnthropicModel, client.Model())
}

func TestNewClient_OpenAI(t *testing.T) {
	client, err := NewClient(context.Background(), &Config{Provider: ProviderOpenAI}, "sk-test-key-123")
	require.NoError(t, err)
	defer client.Close()

	_, ok := client.(*OpenAIClient)
	assert.True(t, ok)
	assert.Equal(t, DefaultOpenAIModel, client.Model())
}

func TestNewClient_UnknownProvider(t *testing.T) {
	_, err := NewClient(context.Background(), &Config{Provider: "cohere"}, testAPIKey)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown analysis provider")
}

func TestConfig_WithDefaults(t *testing.T) {
	cfg := (&Config{}).withDefaults()
	assert.Equal(t, ProviderAnthropic, cfg.Provider)
	assert.Equal(t, DefaultAnthropicModel, cfg.Model)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.Equal(t, DefaultMaxTokens, cfg.MaxTokens)

	cfg = (&Config{Provider: ProviderGemini}).withDefaults()
	assert.Equal(t, DefaultGeminiModel, cfg.Model)

	cfg = (&Config{Provider: ProviderOpenAI, Model: "gpt-4o-mini"}).withDefaults()
	assert.Equal(t, "gpt-4o-mini", cfg.Model, "explicit model wins over provider default")
}

func TestResult_Text(t *testing.T) {
	r := &Result{Content: []ContentBlock{
		{Type: "text", Text: "first "},
		{Type: "tool_use"},
		{Type: "text", Text: "second"},
	}}

	assert.Equal(t, "first second", r.Text())
	assert.Empty(t, (&Result{}).Text())
}
