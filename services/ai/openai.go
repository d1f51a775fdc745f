package ai

import (
	"context"
	"math"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// openAIChatClient go-openai 客户端中用到的部分
type openAIChatClient interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIGenerator OpenAI 兼容接口适配器
type OpenAIGenerator struct {
	client openAIChatClient
}

// NewOpenAIGenerator 创建 OpenAI 适配器
//
// baseURL 为空时使用官方地址，timeout 作用于整个 HTTP 请求
func NewOpenAIGenerator(apiKey, baseURL string, timeout time.Duration) *OpenAIGenerator {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	cfg.HTTPClient = &http.Client{Timeout: timeout}

	return &OpenAIGenerator{client: openai.NewClientWithConfig(cfg)}
}

// Generate 调用 Chat Completions 接口
func (g *OpenAIGenerator) Generate(ctx context.Context, req GenerationRequest) (GenerationResult, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: req.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: req.Message},
		},
		Temperature: openAITemperature(req.Temperature),
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return GenerationResult{}, err
	}

	return normalizeOpenAI(resp)
}

// openAITemperature go-openai 的 temperature 字段带 omitempty，0 会被省略，
// 用最小正数代替以保证 0 被发送
func openAITemperature(t float64) float32 {
	if t == 0 {
		return math.SmallestNonzeroFloat32
	}
	return float32(t)
}

// normalizeOpenAI 取第一个 choice 的内容，Token 数使用供应商给出的总数
//
// 响应中缺少 usage 时各字段均为 0，视为不完整的回复
func normalizeOpenAI(resp openai.ChatCompletionResponse) (GenerationResult, error) {
	if len(resp.Choices) == 0 {
		return GenerationResult{}, ErrEmptyReply
	}
	if resp.Usage.PromptTokens == 0 && resp.Usage.CompletionTokens == 0 && resp.Usage.TotalTokens == 0 {
		return GenerationResult{}, ErrMissingUsage
	}
	return GenerationResult{
		Text:       resp.Choices[0].Message.Content,
		TokensUsed: resp.Usage.TotalTokens,
	}, nil
}
