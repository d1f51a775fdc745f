package health

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/MeowSalty/tribeai/services/health"
	"github.com/MeowSalty/tribeai/services/stats"
)

const (
	appMessage = "Tribe AI Application"
	appVersion = "1.0.0"
)

// Handler 健康检查处理器结构体
type Handler struct {
	healthService health.Service
	collector     *stats.Collector
	now           func() time.Time
}

// NewHandler 创建健康检查处理器实例
//
// 参数：
//   - healthService: 健康服务接口实例
//   - collector: 实时数据采集器
func NewHandler(healthService health.Service, collector *stats.Collector) *Handler {
	return &Handler{
		healthService: healthService,
		collector:     collector,
		now:           time.Now,
	}
}

func (h *Handler) timestamp() string {
	return h.now().UTC().Format(time.RFC3339)
}

// Health 基础健康检查，不检查任何依赖
func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "healthy",
		"timestamp": h.timestamp(),
	})
}

// Detailed 详细健康检查
//
// 依赖检查失败只体现在 checks 中，整体状态始终为 healthy
func (h *Handler) Detailed(c *fiber.Ctx) error {
	ctx := c.UserContext()

	return c.JSON(fiber.Map{
		"status":    "healthy",
		"timestamp": h.timestamp(),
		"system":    h.healthService.SystemMetrics(ctx),
		"checks": fiber.Map{
			"database": health.CheckStatus(h.healthService.CheckDatabase(ctx)),
			"redis":    health.CheckStatus(h.healthService.CheckRedis(ctx)),
		},
		"realtime": fiber.Map{
			"rpm":                h.collector.RPM(),
			"active_connections": h.collector.ActiveConnections(),
		},
	})
}

// Ready 就绪检查，已配置的数据库不可用时返回 503
func (h *Handler) Ready(c *fiber.Ctx) error {
	err := h.healthService.CheckDatabase(c.UserContext())
	if err != nil && !errors.Is(err, health.ErrNotConfigured) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "not_ready",
			"reason": err.Error(),
		})
	}

	return c.JSON(fiber.Map{"status": "ready"})
}

// Live 存活检查
func (h *Handler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "alive"})
}

// Root 应用信息
func (h *Handler) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": appMessage,
		"version": appVersion,
		"status":  "operational",
	})
}
