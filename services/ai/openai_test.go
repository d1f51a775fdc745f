package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeOpenAI(t *testing.T) {
	resp := openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: "hello"}},
			{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: "ignored"}},
		},
		Usage: openai.Usage{PromptTokens: 30, CompletionTokens: 12, TotalTokens: 42},
	}

	res, err := normalizeOpenAI(resp)

	require.NoError(t, err)
	assert.Equal(t, GenerationResult{Text: "hello", TokensUsed: 42}, res)
}

func TestNormalizeOpenAIEmptyChoices(t *testing.T) {
	_, err := normalizeOpenAI(openai.ChatCompletionResponse{})

	assert.ErrorIs(t, err, ErrEmptyReply)
}

func TestNormalizeOpenAIMissingUsage(t *testing.T) {
	_, err := normalizeOpenAI(openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: "hello"}},
		},
	})

	assert.ErrorIs(t, err, ErrMissingUsage)
}

func TestOpenAIGeneratorAgainstServer(t *testing.T) {
	var captured openai.ChatCompletionRequest
	var authHeader string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		authHeader = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"model": "gpt-4",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "hello"}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 30, "completion_tokens": 12, "total_tokens": 42}
		}`))
	}))
	defer srv.Close()

	gen := NewOpenAIGenerator("sk-test", srv.URL+"/v1", 5*time.Second)
	res, err := gen.Generate(context.Background(), GenerationRequest{
		Message: "hi", Model: "gpt-4", Temperature: 0.5, MaxTokens: 64,
	})

	require.NoError(t, err)
	assert.Equal(t, GenerationResult{Text: "hello", TokensUsed: 42}, res)
	assert.Equal(t, "Bearer sk-test", authHeader)
	assert.Equal(t, "gpt-4", captured.Model)
	assert.Equal(t, 64, captured.MaxTokens)
	assert.InDelta(t, 0.5, captured.Temperature, 1e-6)
	require.Len(t, captured.Messages, 1)
	assert.Equal(t, openai.ChatMessageRoleUser, captured.Messages[0].Role)
	assert.Equal(t, "hi", captured.Messages[0].Content)
}

func TestOpenAIGeneratorVendorError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": {"message": "invalid api key", "type": "invalid_request_error"}}`))
	}))
	defer srv.Close()

	gen := NewOpenAIGenerator("bad", srv.URL+"/v1", 5*time.Second)
	_, err := gen.Generate(context.Background(), GenerationRequest{Message: "hi", Model: "gpt-4", MaxTokens: 1})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid api key")
}

func TestOpenAIGeneratorEmptyChoicesFromServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "x", "choices": [], "usage": {"total_tokens": 5}}`))
	}))
	defer srv.Close()

	gen := NewOpenAIGenerator("sk", srv.URL+"/v1", 5*time.Second)
	_, err := gen.Generate(context.Background(), GenerationRequest{Message: "hi", Model: "gpt-4", MaxTokens: 1})

	assert.ErrorIs(t, err, ErrEmptyReply)
}

func TestOpenAIGeneratorMissingUsageFromServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "x", "choices": [{"index": 0, "message": {"role": "assistant", "content": "hello"}}]}`))
	}))
	defer srv.Close()

	gen := NewOpenAIGenerator("sk", srv.URL+"/v1", 5*time.Second)
	res, err := gen.Generate(context.Background(), GenerationRequest{Message: "hi", Model: "gpt-4", MaxTokens: 1})

	assert.ErrorIs(t, err, ErrMissingUsage)
	assert.Equal(t, GenerationResult{}, res)
}

func TestOpenAIGeneratorSendsZeroTemperature(t *testing.T) {
	var raw map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "ok"}}],
			"usage": {"prompt_tokens": 1, "completion_tokens": 1, "total_tokens": 2}
		}`))
	}))
	defer srv.Close()

	gen := NewOpenAIGenerator("sk", srv.URL+"/v1", 5*time.Second)
	_, err := gen.Generate(context.Background(), GenerationRequest{Message: "hi", Model: "gpt-4", Temperature: 0, MaxTokens: 5})

	require.NoError(t, err)
	require.Contains(t, raw, "temperature")
	assert.InDelta(t, 0.0, raw["temperature"], 1e-6)
}
