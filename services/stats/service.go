package stats

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/MeowSalty/tribeai/database/types"
	"github.com/MeowSalty/tribeai/services/ai"
	"gorm.io/gorm"
)

// ErrStorageDisabled 未配置数据库，无法查询请求记录
var ErrStorageDisabled = errors.New("request log storage is not configured")

// Service 定义统计服务接口
type Service interface {
	ai.UsageRecorder

	// GetOverview 获取全局概览数据
	GetOverview(ctx context.Context, duration time.Duration) (*OverviewResponse, error)

	// GetRealtime 获取实时数据
	GetRealtime(ctx context.Context) (*RealtimeResponse, error)

	// ListRequestLogs 分页获取请求记录
	ListRequestLogs(ctx context.Context, opts ListRequestLogsOptions) ([]*types.RequestLog, int64, error)

	// Close 等待未完成的请求记录写入
	Close() error
}

// service 统计服务实现
type service struct {
	db        *gorm.DB // 为 nil 时只提供实时数据
	collector *Collector
	logger    *slog.Logger
	now       func() time.Time

	pending sync.WaitGroup // 后台写入
}

// New 创建统计服务
//
// 参数：
//   - db: 数据库连接，为 nil 时不持久化请求记录
//   - collector: 实时数据采集器
//   - logger: 日志记录器
func New(db *gorm.DB, collector *Collector, logger *slog.Logger) Service {
	return &service{
		db:        db,
		collector: collector,
		logger:    logger,
		now:       time.Now,
	}
}

// GetRealtime 通过采集器获取实时数据
func (s *service) GetRealtime(_ context.Context) (*RealtimeResponse, error) {
	return &RealtimeResponse{
		RPM:               s.collector.RPM(),
		ActiveConnections: s.collector.ActiveConnections(),
	}, nil
}
