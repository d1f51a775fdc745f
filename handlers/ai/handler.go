package ai

import (
	"slices"

	"github.com/gofiber/fiber/v2"

	"github.com/MeowSalty/tribeai/services/ai"
)

// Handler 聊天接口处理器
type Handler struct {
	aiService ai.Service
	policy    string
}

// NewHandler 创建聊天接口处理器
//
// 参数：
//   - aiService: 聊天分发服务
//   - policy: 错误状态码策略，legacy 或 strict
func NewHandler(aiService ai.Service, policy string) *Handler {
	return &Handler{aiService: aiService, policy: policy}
}

// Chat 处理单次聊天请求
//
// 返回值：
//   - 成功：模型回复、实际使用的模型和消耗的 Token 数
//   - 失败：{"detail": 错误信息}
func (h *Handler) Chat(c *fiber.Ctx) error {
	var req ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return detail(c, fiber.StatusBadRequest, "无法解析请求："+err.Error())
	}
	if err := validate.Struct(&req); err != nil {
		return detail(c, fiber.StatusUnprocessableEntity, validationDetail(err))
	}

	genReq := h.withDefaults(req)
	result, err := h.aiService.Generate(c.UserContext(), genReq)
	if err != nil {
		return detail(c, statusFor(h.policy, err), err.Error())
	}

	return c.JSON(ChatResponse{
		Response:   result.Text,
		Model:      genReq.Model,
		TokensUsed: result.TokensUsed,
	})
}

// withDefaults 用默认值补全未提供的字段
func (h *Handler) withDefaults(req ChatRequest) ai.GenerationRequest {
	defaults := h.aiService.Defaults()
	genReq := ai.GenerationRequest{
		Message:     req.Message,
		Model:       defaults.Model,
		Temperature: defaults.Temperature,
		MaxTokens:   defaults.MaxTokens,
	}
	if req.Model != nil && *req.Model != "" {
		genReq.Model = *req.Model
	}
	if req.Temperature != nil {
		genReq.Temperature = *req.Temperature
	}
	if req.MaxTokens != nil {
		genReq.MaxTokens = *req.MaxTokens
	}
	return genReq
}

// ListModels 返回可用模型列表
//
// 查询参数：
//   - configured: 为 true 时只返回已配置供应商的模型
func (h *Handler) ListModels(c *fiber.Ctx) error {
	if !c.QueryBool("configured", false) {
		return c.JSON(ModelsResponse{Models: availableModels})
	}

	configured := h.aiService.ConfiguredProviders()
	models := make([]string, 0, len(availableModels))
	for _, model := range availableModels {
		kind, err := ai.ResolveProvider(model)
		if err == nil && slices.Contains(configured, kind) {
			models = append(models, model)
		}
	}
	return c.JSON(ModelsResponse{Models: models})
}

func detail(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"detail": msg})
}
