package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// GeminiClient implements Client for the Google Gemini API via the official
// SDK.
type GeminiClient struct {
	client *genai.Client
	config *Config
}

// NewGeminiClient creates a Gemini client.
func NewGeminiClient(ctx context.Context, config *Config, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{client: client, config: config.withDefaults()}, nil
}

// Analyze submits the prompt and note content as a single user message.
func (c *GeminiClient) Analyze(ctx context.Context, prompt, content string) (*Result, error) {
	return c.send(ctx, prompt+"\n\n"+content)
}

// Verify sends the minimal key-check request.
func (c *GeminiClient) Verify(ctx context.Context) error {
	_, err := c.send(ctx, verifyPrompt)
	return err
}

// Model returns the configured model name.
func (c *GeminiClient) Model() string {
	return c.config.Model
}

// Close releases resources held by the client.
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

func (c *GeminiClient) send(ctx context.Context, message string) (*Result, error) {
	model := c.client.GenerativeModel(c.config.Model)
	model.SetTemperature(0.1) // Low temperature for consistent output

	resp, err := model.GenerateContent(ctx, genai.Text(message))
	if err != nil {
		return nil, classifyGeminiError(err)
	}

	return geminiResult(resp, c.config.Model)
}

// classifyGeminiError maps SDK errors onto the retry policy using the
// embedded googleapi status code when present.
func classifyGeminiError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return &APIError{
			StatusCode: apiErr.Code,
			Message:    apiErr.Message,
			Retryable:  retryableStatus(apiErr.Code),
			Cause:      err,
		}
	}
	return classifyTransportError(err)
}

// geminiResult normalizes a Gemini response, re-encoding it to fill the raw
// body the SDK already decoded.
func geminiResult(resp *genai.GenerateContentResponse, model string) (*Result, error) {
	if len(resp.Candidates) == 0 {
		return nil, &ParseError{Message: "no candidates in response"}
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return nil, &ParseError{Message: "no content in response"}
	}

	result := &Result{
		Model:      model,
		StopReason: candidate.FinishReason.String(),
	}
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			result.Content = append(result.Content, ContentBlock{Type: "text", Text: string(text)})
		}
	}
	if result.Text() == "" {
		return nil, &ParseError{Message: "no text parts in response"}
	}

	if resp.UsageMetadata != nil {
		result.Usage = Usage{
			InputTokens:  int(resp.UsageMetadata.PromptTokenCount),
			OutputTokens: int(resp.UsageMetadata.CandidatesTokenCount),
		}
	}

	raw, err := json.Marshal(resp)
	if err != nil {
		return nil, &ParseError{Message: "failed to encode raw response", Cause: err}
	}
	result.Raw = raw

	return result, nil
}
