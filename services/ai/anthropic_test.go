package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeAnthropic(t *testing.T) {
	resp := anthropicResponse{
		Content: []anthropicContent{{Type: "text", Text: "hi"}, {Type: "text", Text: "ignored"}},
		Usage:   &anthropicUsage{InputTokens: 10, OutputTokens: 5},
	}

	res, err := normalizeAnthropic(resp)

	require.NoError(t, err)
	assert.Equal(t, GenerationResult{Text: "hi", TokensUsed: 15}, res)
}

func TestNormalizeAnthropicRejectsPartialReplies(t *testing.T) {
	_, err := normalizeAnthropic(anthropicResponse{Usage: &anthropicUsage{InputTokens: 1}})
	assert.ErrorIs(t, err, ErrEmptyReply)

	_, err = normalizeAnthropic(anthropicResponse{Content: []anthropicContent{{Type: "text", Text: "hi"}}})
	assert.ErrorIs(t, err, ErrMissingUsage)
}

func TestAnthropicGeneratorAgainstServer(t *testing.T) {
	var captured anthropicRequest
	var headers http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/messages", r.URL.Path)
		headers = r.Header.Clone()
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "msg_1",
			"type": "message",
			"role": "assistant",
			"model": "claude-3-opus",
			"content": [{"type": "text", "text": "hi"}],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 10, "output_tokens": 5}
		}`))
	}))
	defer srv.Close()

	gen := NewAnthropicGenerator("ak-test", srv.URL+"/", 5*time.Second)
	res, err := gen.Generate(context.Background(), GenerationRequest{
		Message: "hello", Model: "claude-3-opus", Temperature: 0, MaxTokens: 256,
	})

	require.NoError(t, err)
	assert.Equal(t, GenerationResult{Text: "hi", TokensUsed: 15}, res)
	assert.Equal(t, "ak-test", headers.Get("x-api-key"))
	assert.Equal(t, anthropicVersion, headers.Get("anthropic-version"))
	assert.Equal(t, "claude-3-opus", captured.Model)
	assert.Equal(t, 256, captured.MaxTokens)
	assert.Zero(t, captured.Temperature)
	assert.Equal(t, []anthropicMessage{{Role: "user", Content: "hello"}}, captured.Messages)
}

func TestAnthropicGeneratorVendorError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"type": "error", "error": {"type": "rate_limit_error", "message": "slow down"}}`))
	}))
	defer srv.Close()

	gen := NewAnthropicGenerator("ak", srv.URL, 5*time.Second)
	_, err := gen.Generate(context.Background(), GenerationRequest{Message: "hi", Model: "claude-3-opus", MaxTokens: 1})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
	assert.Equal(t, "rate_limit_error", apiErr.Type)
	assert.Equal(t, "slow down", apiErr.Message)
}

func TestAnthropicGeneratorNonJSONError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream exploded"))
	}))
	defer srv.Close()

	gen := NewAnthropicGenerator("ak", srv.URL, 5*time.Second)
	_, err := gen.Generate(context.Background(), GenerationRequest{Message: "hi", Model: "claude-3-opus", MaxTokens: 1})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "upstream exploded", apiErr.Message)
}

func TestAnthropicGeneratorMalformedReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "msg_1", "content": []}`))
	}))
	defer srv.Close()

	gen := NewAnthropicGenerator("ak", srv.URL, 5*time.Second)
	_, err := gen.Generate(context.Background(), GenerationRequest{Message: "hi", Model: "claude-3-opus", MaxTokens: 1})

	assert.ErrorIs(t, err, ErrEmptyReply)
}

func TestAnthropicGeneratorCanceledContext(t *testing.T) {
	gen := NewAnthropicGenerator("ak", "http://127.0.0.1:1", time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := gen.Generate(ctx, GenerationRequest{Message: "hi", Model: "claude-3-opus", MaxTokens: 1})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseAnthropicErrorTruncatesOnRuneBoundary(t *testing.T) {
	// 每个字符 3 字节，按字节截断会落在字符中间
	body := []byte(strings.Repeat("错", 300))

	err := parseAnthropicError(502, body)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, utf8.ValidString(apiErr.Message))
	assert.LessOrEqual(t, len(apiErr.Message), maxErrorBodyLength)
	assert.Equal(t, strings.Repeat("错", maxErrorBodyLength/3), apiErr.Message)
}

func TestTruncateUTF8(t *testing.T) {
	assert.Equal(t, "short", truncateUTF8("short", 10))
	assert.Equal(t, "ab", truncateUTF8("abcd", 2))
	assert.Equal(t, "a", truncateUTF8("aé", 2))
}
