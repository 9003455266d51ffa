package analysis

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAPIKey = "sk-ant-test-key-123"

func anthropicTestBody(text string) string {
	return `{
		"id": "msg_01",
		"type": "message",
		"role": "assistant",
		"model": "claude-3-7-sonnet-latest",
		"stop_reason": "end_turn",
		"content": [{"type": "text", "text": ` + jsonString(text) + `}],
		"usage": {"input_tokens": 25, "output_tokens": 50}
	}`
}

func jsonString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func newAnthropicTestClient(t *testing.T, handler http.HandlerFunc) (*AnthropicClient, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewAnthropicClient(&Config{BaseURL: server.URL}, testAPIKey)
	require.NoError(t, err)
	return client, server
}

func TestAnthropicClient_Analyze(t *testing.T) {
	var gotReq anthropicRequest
	var gotHeaders http.Header

	client, _ := newAnthropicTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotHeaders = r.Header.Clone()
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(anthropicTestBody("# Corrected Notes\n\ncontent here")))
	})

	result, err := client.Analyze(context.Background(), "Fix this text.", "teh quick brown fox")
	require.NoError(t, err)

	// Request shape: single user message, prompt and content joined.
	assert.Equal(t, testAPIKey, gotHeaders.Get("x-api-key"))
	assert.Equal(t, anthropicVersion, gotHeaders.Get("anthropic-version"))
	assert.Equal(t, "application/json", gotHeaders.Get("Content-Type"))
	assert.Equal(t, DefaultAnthropicModel, gotReq.Model)
	assert.Equal(t, DefaultMaxTokens, gotReq.MaxTokens)
	require.Len(t, gotReq.Messages, 1)
	assert.Equal(t, "user", gotReq.Messages[0].Role)
	assert.Equal(t, "Fix this text.\n\nteh quick brown fox", gotReq.Messages[0].Content)

	// Normalized result.
	assert.Equal(t, "msg_01", result.ID)
	assert.Equal(t, "end_turn", result.StopReason)
	assert.Equal(t, "# Corrected Notes\n\ncontent here", result.Text())
	assert.Equal(t, 25, result.Usage.InputTokens)
	assert.Equal(t, 50, result.Usage.OutputTokens)
	assert.NotEmpty(t, result.Raw)
}

func TestAnthropicClient_Verify(t *testing.T) {
	var gotReq anthropicRequest

	client, _ := newAnthropicTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.Write([]byte(anthropicTestBody("ok")))
	})

	require.NoError(t, client.Verify(context.Background()))

	assert.Equal(t, verifyMaxTokens, gotReq.MaxTokens)
	require.Len(t, gotReq.Messages, 1)
	assert.Equal(t, "Test", gotReq.Messages[0].Content)
}

func TestAnthropicClient_Analyze_RateLimited(t *testing.T) {
	client, _ := newAnthropicTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": {"type": "rate_limit_error", "message": "rate limited"}}`))
	})

	_, err := client.Analyze(context.Background(), "p", "c")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
	assert.True(t, apiErr.Retryable)
	assert.Contains(t, apiErr.Message, "rate limited")
	assert.True(t, IsRetryable(err))
}

func TestAnthropicClient_Analyze_ServerError(t *testing.T) {
	client, _ := newAnthropicTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream gone"))
	})

	_, err := client.Analyze(context.Background(), "p", "c")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.True(t, apiErr.Retryable)
}

func TestAnthropicClient_Analyze_BadRequest(t *testing.T) {
	client, _ := newAnthropicTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": {"type": "invalid_request_error", "message": "max_tokens too large"}}`))
	})

	_, err := client.Analyze(context.Background(), "p", "c")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.False(t, apiErr.Retryable)
	assert.Contains(t, apiErr.Message, "max_tokens too large")
	assert.False(t, IsRetryable(err))
}

func TestAnthropicClient_Analyze_MalformedSuccess(t *testing.T) {
	client, _ := newAnthropicTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"content": "should be an array"}`))
	})

	_, err := client.Analyze(context.Background(), "p", "c")
	require.Error(t, err)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.False(t, IsRetryable(err))
}

func TestAnthropicClient_Analyze_NonJSONSuccess(t *testing.T) {
	client, _ := newAnthropicTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>accidentally html</html>"))
	})

	_, err := client.Analyze(context.Background(), "p", "c")
	require.Error(t, err)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestAnthropicClient_Analyze_NoTextContent(t *testing.T) {
	client, _ := newAnthropicTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id": "msg_02", "content": [{"type": "tool_use"}]}`))
	})

	_, err := client.Analyze(context.Background(), "p", "c")
	require.Error(t, err)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, parseErr.Message, "no text content")
}

func TestAnthropicClient_Analyze_Timeout(t *testing.T) {
	client, _ := newAnthropicTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(anthropicTestBody("late")))
	})
	client.httpClient.Timeout = 20 * time.Millisecond

	_, err := client.Analyze(context.Background(), "p", "c")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.Retryable, "timeouts should be retryable")
}

func TestNewAnthropicClient_RequiresAPIKey(t *testing.T) {
	_, err := NewAnthropicClient(DefaultConfig(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key")
}
