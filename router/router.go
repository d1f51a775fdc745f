package router

import (
	"log/slog"
	"slices"
	"strings"

	"github.com/MeowSalty/tribeai/handlers/ai"
	"github.com/MeowSalty/tribeai/handlers/health"
	"github.com/MeowSalty/tribeai/handlers/stats"
	"github.com/MeowSalty/tribeai/services"
	statsService "github.com/MeowSalty/tribeai/services/stats"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

type Config struct {
	AllowedOrigins    []string
	ErrorStatusPolicy string
}

// SetupRoutes 配置 API 路由
func SetupRoutes(web *fiber.App, svcs *services.Services, config Config, logger *slog.Logger) error {
	web.Use(newCORS(config.AllowedOrigins, logger))

	api := web.Group("/api/v1")
	aiAPI := api.Group("/ai")

	// 为聊天接口添加统计采集中间件
	aiAPI.Use(createStatsCollectorMiddleware(svcs.Collector))

	ai.SetupAIRoutes(aiAPI, svcs.AIService, config.ErrorStatusPolicy)
	stats.SetupStatsRoutes(api, svcs.StatsService)
	health.SetupHealthRoutes(web, svcs.HealthService, svcs.Collector)

	return nil
}

// newCORS 根据允许的来源创建跨域中间件
//
// 允许任意来源时不能同时携带凭证，此时关闭 AllowCredentials
func newCORS(origins []string, logger *slog.Logger) fiber.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	allowCredentials := !slices.Contains(origins, "*")
	if !allowCredentials {
		logger.Warn("CORS 允许任意来源，已禁用凭证")
	}

	return cors.New(cors.Config{
		AllowOrigins:     strings.Join(origins, ","),
		AllowCredentials: allowCredentials,
		AllowMethods:     "GET,POST,HEAD,PUT,DELETE,PATCH,OPTIONS",
	})
}

// createStatsCollectorMiddleware 创建统计数据采集中间件
//
// 该中间件用于采集聊天接口的请求数据和活动连接数
func createStatsCollectorMiddleware(collector *statsService.Collector) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// 记录请求
		collector.RecordRequest()

		// 请求处理期间计为活动连接
		collector.IncrementConnection()
		defer collector.DecrementConnection()

		return c.Next()
	}
}
