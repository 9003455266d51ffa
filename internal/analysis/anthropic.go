package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/marisa/noteflow/internal/schemas"
)

const (
	anthropicVersion     = "2023-06-01"
	anthropicMessagePath = "/v1/messages"

	// verifyMaxTokens keeps the key-check response tiny.
	verifyMaxTokens = 10
)

// AnthropicClient talks to the Anthropic Messages API over plain HTTP.
type AnthropicClient struct {
	httpClient *http.Client
	config     *Config
	baseURL    string
	apiKey     string
}

// NewAnthropicClient creates an Anthropic client. An empty base URL falls
// back to the ANTHROPIC_BASE_URL environment variable, then to the public
// API endpoint.
func NewAnthropicClient(config *Config, apiKey string) (*AnthropicClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	cfg := config.withDefaults()
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = os.Getenv("ANTHROPIC_BASE_URL")
	}
	if baseURL == "" {
		baseURL = DefaultAnthropicBaseURL
	}

	return &AnthropicClient{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		config:     cfg,
		baseURL:    baseURL,
		apiKey:     apiKey,
	}, nil
}

// anthropicRequest is the Messages API request body.
type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// anthropicResponse mirrors the recognized fields of a Messages API reply.
type anthropicResponse struct {
	ID         string         `json:"id"`
	Model      string         `json:"model"`
	StopReason string         `json:"stop_reason"`
	Content    []ContentBlock `json:"content"`
	Usage      Usage          `json:"usage"`
}

// anthropicErrorBody is the error envelope the API returns on failures.
type anthropicErrorBody struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Analyze submits the prompt and note content as a single user message.
func (c *AnthropicClient) Analyze(ctx context.Context, prompt, content string) (*Result, error) {
	return c.send(ctx, prompt+"\n\n"+content, c.config.MaxTokens)
}

// Verify sends the minimal key-check request.
func (c *AnthropicClient) Verify(ctx context.Context) error {
	_, err := c.send(ctx, verifyPrompt, verifyMaxTokens)
	return err
}

// Model returns the configured model name.
func (c *AnthropicClient) Model() string {
	return c.config.Model
}

// Close releases resources held by the client.
func (c *AnthropicClient) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

func (c *AnthropicClient) send(ctx context.Context, message string, maxTokens int) (*Result, error) {
	body, err := json.Marshal(anthropicRequest{
		Model:     c.config.Model,
		MaxTokens: maxTokens,
		Messages:  []anthropicMessage{{Role: "user", Content: message}},
	})
	if err != nil {
		return nil, &APIError{Message: "failed to encode request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+anthropicMessagePath, bytes.NewReader(body))
	if err != nil {
		return nil, &APIError{Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: "failed to read response body", Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    anthropicErrorMessage(respBody),
			Retryable:  retryableStatus(resp.StatusCode),
		}
	}

	return parseAnthropicResponse(respBody)
}

// anthropicErrorMessage extracts the API's own error message, falling back
// to a body excerpt.
func anthropicErrorMessage(body []byte) string {
	var envelope anthropicErrorBody
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		return envelope.Error.Message
	}
	return truncate(string(body), 200)
}

// parseAnthropicResponse validates the body shape, decodes it, and requires
// at least one textual content block.
func parseAnthropicResponse(body []byte) (*Result, error) {
	if err := schemas.ValidateAnthropicResponse(string(body)); err != nil {
		return nil, &ParseError{Message: "unexpected response shape", Cause: err}
	}

	var wire anthropicResponse
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, &ParseError{Message: "failed to decode response", Cause: err}
	}

	result := &Result{
		ID:         wire.ID,
		Model:      wire.Model,
		StopReason: wire.StopReason,
		Content:    wire.Content,
		Usage:      wire.Usage,
		Raw:        body,
	}
	if result.Text() == "" {
		return nil, &ParseError{Message: "no text content in response"}
	}

	return result, nil
}
