package ai

// ChatRequest 聊天请求体
//
// 可选字段为 nil 时使用配置中的默认值，显式传入的 0 会被保留
type ChatRequest struct {
	Message     string   `json:"message" validate:"required"`
	Model       *string  `json:"model"`
	Temperature *float64 `json:"temperature" validate:"omitnil,gte=0,lte=2"`
	MaxTokens   *int     `json:"max_tokens" validate:"omitnil,gt=0"`
}

// ChatResponse 聊天响应体
type ChatResponse struct {
	Response   string `json:"response"`    // 模型回复
	Model      string `json:"model"`       // 实际使用的模型
	TokensUsed int    `json:"tokens_used"` // 消耗的 Token 数
}

// ModelsResponse 模型列表响应体
type ModelsResponse struct {
	Models []string `json:"models"`
}

// availableModels 对外公布的模型列表
var availableModels = []string{
	"gpt-4",
	"gpt-3.5-turbo",
	"claude-3-opus",
	"claude-3-sonnet",
}
