package health

import (
	"github.com/gofiber/fiber/v2"

	"github.com/MeowSalty/tribeai/services/health"
	"github.com/MeowSalty/tribeai/services/stats"
)

// SetupHealthRoutes 配置健康检查和根路径路由
func SetupHealthRoutes(router fiber.Router, healthService health.Service, collector *stats.Collector) {
	handler := NewHandler(healthService, collector)

	router.Get("/", handler.Root)

	healthGroup := router.Group("/health")
	healthGroup.Get("/", handler.Health)
	healthGroup.Get("/detailed", handler.Detailed)
	healthGroup.Get("/ready", handler.Ready)
	healthGroup.Get("/live", handler.Live)
}
