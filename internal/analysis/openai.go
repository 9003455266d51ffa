package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/openai/openai-go"

	"github.com/marisa/noteflow/internal/schemas"
)

// OpenAIClient talks to any OpenAI-compatible chat completions API. A
// custom base URL enables Azure OpenAI, local models, or other compatible
// services.
type OpenAIClient struct {
	httpClient *http.Client
	config     *Config
	baseURL    string
	apiKey     string
}

// NewOpenAIClient creates an OpenAI-compatible client. An empty base URL
// falls back to the OPENAI_BASE_URL environment variable, then to the
// public API endpoint.
func NewOpenAIClient(config *Config, apiKey string) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	cfg := config.withDefaults()
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = os.Getenv("OPENAI_BASE_URL")
	}
	if baseURL == "" {
		baseURL = DefaultOpenAIBaseURL
	}

	return &OpenAIClient{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		config:     cfg,
		baseURL:    baseURL,
		apiKey:     apiKey,
	}, nil
}

// openaiResponse mirrors the recognized fields of a chat completions reply.
type openaiResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

// openaiErrorBody is the error envelope the API returns on failures.
type openaiErrorBody struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Analyze submits the prompt and note content as a single user message.
func (c *OpenAIClient) Analyze(ctx context.Context, prompt, content string) (*Result, error) {
	return c.send(ctx, prompt+"\n\n"+content, 0)
}

// Verify sends the minimal key-check request.
func (c *OpenAIClient) Verify(ctx context.Context) error {
	_, err := c.send(ctx, verifyPrompt, verifyMaxTokens)
	return err
}

// Model returns the configured model name.
func (c *OpenAIClient) Model() string {
	return c.config.Model
}

// Close releases resources held by the client.
func (c *OpenAIClient) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

func (c *OpenAIClient) send(ctx context.Context, message string, maxTokens int) (*Result, error) {
	messages := []openai.ChatCompletionMessageParamUnion{
		openai.UserMessage(message),
	}

	reqBody := map[string]interface{}{
		"model":    c.config.Model,
		"messages": messages,
	}
	if maxTokens > 0 {
		reqBody["max_tokens"] = maxTokens
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, &APIError{Message: "failed to encode request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, &APIError{Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

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
			Message:    openaiErrorMessage(respBody),
			Retryable:  retryableStatus(resp.StatusCode),
		}
	}

	return parseOpenAIResponse(respBody)
}

// openaiErrorMessage extracts the API's own error message, falling back to
// a body excerpt.
func openaiErrorMessage(body []byte) string {
	var envelope openaiErrorBody
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		return envelope.Error.Message
	}
	return truncate(string(body), 200)
}

// parseOpenAIResponse validates the body shape and maps the first choice
// onto the normalized result.
func parseOpenAIResponse(body []byte) (*Result, error) {
	if err := schemas.ValidateOpenAIResponse(string(body)); err != nil {
		return nil, &ParseError{Message: "unexpected response shape", Cause: err}
	}

	var wire openaiResponse
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, &ParseError{Message: "failed to decode response", Cause: err}
	}

	result := &Result{ID: wire.ID, Model: wire.Model, Raw: body}
	for _, choice := range wire.Choices {
		if choice.Message.Content != "" {
			result.Content = append(result.Content, ContentBlock{Type: "text", Text: choice.Message.Content})
		}
		if result.StopReason == "" {
			result.StopReason = choice.FinishReason
		}
	}
	result.Usage = Usage{
		InputTokens:  wire.Usage.PromptTokens,
		OutputTokens: wire.Usage.CompletionTokens,
	}

	if result.Text() == "" {
		return nil, &ParseError{Message: "no text content in response"}
	}

	return result, nil
}
