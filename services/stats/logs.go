package stats

import (
	"context"
	"fmt"

	"github.com/MeowSalty/tribeai/database/types"
	"gorm.io/gorm"
)

// ListRequestLogs 分页获取请求记录，按时间倒序
func (s *service) ListRequestLogs(ctx context.Context, opts ListRequestLogsOptions) ([]*types.RequestLog, int64, error) {
	if s.db == nil {
		return nil, 0, ErrStorageDisabled
	}
	if opts.Page <= 0 {
		opts.Page = 1
	}
	if opts.PageSize <= 0 {
		opts.PageSize = 20
	}

	query := s.db.WithContext(ctx).Model(&types.RequestLog{})
	if opts.StartTime != nil {
		query = query.Where("timestamp >= ?", opts.StartTime.UTC())
	}
	if opts.EndTime != nil {
		query = query.Where("timestamp <= ?", opts.EndTime.UTC())
	}
	if opts.Success != nil {
		query = query.Where("success = ?", *opts.Success)
	}
	if opts.ModelName != nil {
		query = query.Where("model_name = ?", *opts.ModelName)
	}
	if opts.Provider != nil {
		query = query.Where("provider = ?", *opts.Provider)
	}

	// 允许同一组条件分别用于计数和分页查询
	query = query.Session(&gorm.Session{})

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return nil, 0, fmt.Errorf("count request logs: %w", err)
	}

	var logs []*types.RequestLog
	err := query.
		Order("timestamp DESC").
		Offset((opts.Page - 1) * opts.PageSize).
		Limit(opts.PageSize).
		Find(&logs).Error
	if err != nil {
		s.logger.ErrorContext(ctx, "获取请求记录列表失败", "error", err)
		return nil, 0, fmt.Errorf("list request logs: %w", err)
	}

	return logs, count, nil
}
