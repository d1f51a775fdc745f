package stats

import (
	"github.com/gofiber/fiber/v2"

	"github.com/MeowSalty/tribeai/services/stats"
)

// SetupStatsRoutes 配置统计相关的路由
func SetupStatsRoutes(router fiber.Router, statsService stats.Service) {
	handler := NewStatsHandler(statsService)

	statsGroup := router.Group("/stats")
	statsGroup.Get("/overview", handler.GetOverview)
	statsGroup.Get("/realtime", handler.GetRealtime)
	statsGroup.Get("/requests", handler.ListRequestLogs)
}
