package stats

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/MeowSalty/tribeai/services/stats"
)

// maxPageSize 请求记录每页的最大数量
const maxPageSize = 100

// StatsHandler 统计处理器结构体
type StatsHandler struct {
	StatsService stats.Service
}

// NewStatsHandler 创建统计处理器实例
//
// 参数：
//   - statsService: 统计服务接口实例
func NewStatsHandler(statsService stats.Service) *StatsHandler {
	return &StatsHandler{StatsService: statsService}
}

// GetOverview 获取全局概览数据
//
// 查询参数：
//   - hours: 统计最近多少小时，默认为 24
//
// 返回值：
//   - 成功：全局概览数据
//   - 失败：错误信息
func (h *StatsHandler) GetOverview(c *fiber.Ctx) error {
	hours := c.QueryInt("hours", 24)
	if hours <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "hours 必须为正整数")
	}

	overview, err := h.StatsService.GetOverview(c.UserContext(), time.Duration(hours)*time.Hour)
	if err != nil {
		return storageError("获取统计概览数据失败：", err)
	}

	return c.JSON(overview)
}

// GetRealtime 获取实时数据
func (h *StatsHandler) GetRealtime(c *fiber.Ctx) error {
	realtime, err := h.StatsService.GetRealtime(c.UserContext())
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "获取实时数据失败："+err.Error())
	}

	return c.JSON(realtime)
}

// ListRequestLogs 分页获取请求记录
//
// 查询参数：
//   - page: 页码，默认为 1
//   - page_size: 每页大小，默认为 20，最大 100
//   - success: 按是否成功筛选
//   - model_name: 按模型筛选
//   - provider: 按供应商筛选
//   - start_time / end_time: RFC3339 格式的时间范围
func (h *StatsHandler) ListRequestLogs(c *fiber.Ctx) error {
	opts := stats.ListRequestLogsOptions{
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("page_size", 20),
	}
	if opts.Page <= 0 {
		opts.Page = 1
	}
	if opts.PageSize <= 0 {
		opts.PageSize = 20
	}
	if opts.PageSize > maxPageSize {
		opts.PageSize = maxPageSize
	}

	if v := c.Query("success"); v != "" {
		success, err := strconv.ParseBool(v)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "无效的 success 参数")
		}
		opts.Success = &success
	}
	if v := c.Query("model_name"); v != "" {
		opts.ModelName = &v
	}
	if v := c.Query("provider"); v != "" {
		opts.Provider = &v
	}

	var err error
	if opts.StartTime, err = parseTimeQuery(c, "start_time"); err != nil {
		return err
	}
	if opts.EndTime, err = parseTimeQuery(c, "end_time"); err != nil {
		return err
	}

	logs, total, err := h.StatsService.ListRequestLogs(c.UserContext(), opts)
	if err != nil {
		return storageError("获取请求记录失败：", err)
	}

	return c.JSON(fiber.Map{
		"items":     logs,
		"total":     total,
		"page":      opts.Page,
		"page_size": opts.PageSize,
	})
}

func parseTimeQuery(c *fiber.Ctx, key string) (*time.Time, error) {
	v := c.Query(key)
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "无效的 "+key+" 参数，需要 RFC3339 格式")
	}
	return &t, nil
}

// storageError 未配置数据库时返回 503
func storageError(prefix string, err error) error {
	if errors.Is(err, stats.ErrStorageDisabled) {
		return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
	}
	return fiber.NewError(fiber.StatusInternalServerError, prefix+err.Error())
}
