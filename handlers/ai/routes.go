package ai

import (
	"github.com/gofiber/fiber/v2"

	"github.com/MeowSalty/tribeai/services/ai"
)

// SetupAIRoutes 配置聊天相关的路由
func SetupAIRoutes(router fiber.Router, aiService ai.Service, policy string) {
	handler := NewHandler(aiService, policy)

	router.Post("/chat", handler.Chat)
	router.Get("/models", handler.ListModels)
}
