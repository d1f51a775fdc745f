package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/MeowSalty/tribeai/database/types"
)

// defaultDuration 默认统计时间范围
const defaultDuration = 24 * time.Hour

// modelRankResult 模型聚合查询结果
type modelRankResult struct {
	ModelName    string `gorm:"column:model_name"`
	RequestCount int64  `gorm:"column:request_count"`
	SuccessCount int64  `gorm:"column:success_count"`
	TotalTokens  int64  `gorm:"column:total_tokens"`
}

// GetOverview 获取指定时间范围内的概览数据
//
// 参数：
//   - ctx: 上下文
//   - duration: 统计时间范围，0 值将使用默认的 24 小时
func (s *service) GetOverview(ctx context.Context, duration time.Duration) (*OverviewResponse, error) {
	if s.db == nil {
		return nil, ErrStorageDisabled
	}
	if duration <= 0 {
		duration = defaultDuration
	}
	since := s.now().UTC().Add(-duration)

	s.logger.DebugContext(ctx, "开始获取全局概览数据", "duration", duration, "since", since)

	// SELECT model_name, COUNT(*), SUM(CASE WHEN success ...), SUM(tokens)
	// FROM request_logs WHERE timestamp >= ? GROUP BY model_name
	var rows []modelRankResult
	err := s.db.WithContext(ctx).
		Model(&types.RequestLog{}).
		Select("model_name, COUNT(*) AS request_count, "+
			"SUM(CASE WHEN success = ? THEN 1 ELSE 0 END) AS success_count, "+
			"COALESCE(SUM(tokens), 0) AS total_tokens", true).
		Where("timestamp >= ?", since).
		Group("model_name").
		Order("request_count DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query model stats: %w", err)
	}

	resp := &OverviewResponse{Since: since, Models: make([]ModelRankItem, 0, len(rows))}
	var totalSuccess int64
	for _, row := range rows {
		resp.TotalRequests += row.RequestCount
		resp.TotalTokens += row.TotalTokens
		totalSuccess += row.SuccessCount
	}
	resp.SuccessRate = ratio(totalSuccess, resp.TotalRequests)

	for _, row := range rows {
		resp.Models = append(resp.Models, ModelRankItem{
			ModelName:    row.ModelName,
			RequestCount: row.RequestCount,
			SuccessRate:  ratio(row.SuccessCount, row.RequestCount),
			TotalTokens:  row.TotalTokens,
			Percentage:   ratio(row.RequestCount, resp.TotalRequests),
		})
	}

	return resp, nil
}

// ratio 计算百分比，分母为 0 时返回 0
func ratio(part, total int64) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}
