package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/MeowSalty/tribeai/config"
	"github.com/MeowSalty/tribeai/services/ai"
	"github.com/MeowSalty/tribeai/services/health"
	"github.com/MeowSalty/tribeai/services/stats"
	"gorm.io/gorm"
)

// Services 持有所有服务实例的结构体
type Services struct {
	AIService     ai.Service
	HealthService health.Service
	StatsService  stats.Service
	Collector     *stats.Collector
}

// Option 服务初始化选项
type Option func(*options)

type options struct {
	aiOptions []ai.Option
}

// WithAIOptions 向聊天分发服务传递额外选项
func WithAIOptions(opts ...ai.Option) Option {
	return func(o *options) {
		o.aiOptions = append(o.aiOptions, opts...)
	}
}

// NewServices 初始化所有服务并返回 Services 实例
//
// 该函数负责初始化应用所需的所有服务，并将日志记录器正确传递给各服务。
//
// 参数：
//   - ctx: 上下文，用于服务的初始化
//   - cfg: 应用配置
//   - db: 数据库连接，为 nil 时不持久化请求记录
//   - logger: 日志记录器
//   - opts: 可选项
//
// 返回值：
//   - *Services: 包含所有服务实例的结构体
//   - error: 初始化过程中可能出现的错误
func NewServices(ctx context.Context, cfg *config.Config, db *gorm.DB, logger *slog.Logger, opts ...Option) (*Services, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	// 初始化统计服务
	collector := stats.NewCollector(logger.WithGroup("collector"))
	statsService := stats.New(db, collector, logger.WithGroup("stats"))

	// 初始化聊天分发服务，用量写入统计服务
	aiOptions := append([]ai.Option{ai.WithUsageRecorder(statsService)}, o.aiOptions...)
	aiService := ai.New(ai.ProviderConfig{
		OpenAIAPIKey:     cfg.OpenAIAPIKey,
		OpenAIBaseURL:    cfg.OpenAIBaseURL,
		AnthropicAPIKey:  cfg.AnthropicAPIKey,
		AnthropicBaseURL: cfg.AnthropicBaseURL,
		Timeout:          cfg.VendorTimeout,
		Defaults: ai.Defaults{
			Model:       cfg.DefaultModel,
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
		},
	}, logger.WithGroup("ai"), aiOptions...)

	// 初始化健康服务
	healthService, err := health.New(health.Options{
		DB:       db,
		RedisURL: cfg.RedisURL,
	}, logger.WithGroup("health"))
	if err != nil {
		return nil, fmt.Errorf("初始化健康服务失败：%w", err)
	}

	logger.DebugContext(ctx, "服务初始化完成", "storage", db != nil)

	return &Services{
		AIService:     aiService,
		HealthService: healthService,
		StatsService:  statsService,
		Collector:     collector,
	}, nil
}

// Close 释放服务持有的资源，先等待统计服务写完请求记录
func (s *Services) Close() error {
	return errors.Join(
		s.StatsService.Close(),
		s.HealthService.Close(),
	)
}
