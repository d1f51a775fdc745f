package ai

import "strings"

// ProviderKind 供应商类型
type ProviderKind int

const (
	// OpenAICompatible OpenAI 兼容接口，模型前缀 "gpt"
	OpenAICompatible ProviderKind = iota + 1
	// AnthropicCompatible Anthropic 兼容接口，模型前缀 "claude"
	AnthropicCompatible
)

// ProviderKinds 所有已知的供应商类型
var ProviderKinds = []ProviderKind{OpenAICompatible, AnthropicCompatible}

// String 返回用于日志和统计的标识
func (k ProviderKind) String() string {
	switch k {
	case OpenAICompatible:
		return "openai"
	case AnthropicCompatible:
		return "anthropic"
	default:
		return "unknown"
	}
}

// DisplayName 返回用于错误信息的名称
func (k ProviderKind) DisplayName() string {
	switch k {
	case OpenAICompatible:
		return "OpenAI"
	case AnthropicCompatible:
		return "Anthropic"
	default:
		return "Unknown"
	}
}

// ResolveProvider 根据模型前缀解析供应商
//
// "gpt" 开头路由到 OpenAI，"claude" 开头路由到 Anthropic，其余返回 UnsupportedModelError
func ResolveProvider(model string) (ProviderKind, error) {
	switch {
	case strings.HasPrefix(model, "gpt"):
		return OpenAICompatible, nil
	case strings.HasPrefix(model, "claude"):
		return AnthropicCompatible, nil
	default:
		return 0, &UnsupportedModelError{Model: model}
	}
}
