package ai

import (
	"context"
	"time"
)

// GenerationRequest 单次生成请求
type GenerationRequest struct {
	Message     string
	Model       string
	Temperature float64
	MaxTokens   int
}

// GenerationResult 归一化后的生成结果
type GenerationResult struct {
	Text       string `json:"text"`
	TokensUsed int    `json:"tokens_used"`
}

// Generator 供应商适配器需要实现的能力接口
//
// 每次调用只向供应商发起一次请求，将消息作为单条 user 消息发送
type Generator interface {
	Generate(ctx context.Context, req GenerationRequest) (GenerationResult, error)
}

// Defaults 请求未指定参数时使用的默认值
type Defaults struct {
	Model       string
	Temperature float64
	MaxTokens   int
}

// ProviderConfig 供应商配置，启动时构建一次
//
// 凭证为空表示该供应商未配置，直到被选中时才会报错
type ProviderConfig struct {
	OpenAIAPIKey     string
	OpenAIBaseURL    string
	AnthropicAPIKey  string
	AnthropicBaseURL string

	// Timeout 单次供应商调用的超时时间
	Timeout time.Duration

	Defaults Defaults
}

// Usage 一次分发的用量记录
type Usage struct {
	Model      string
	Provider   string
	Duration   time.Duration
	TokensUsed int
	Err        error
}

// UsageRecorder 用量记录器
type UsageRecorder interface {
	RecordUsage(ctx context.Context, usage Usage)
}
