package health

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/MeowSalty/tribeai/database"
	"github.com/redis/go-redis/v9"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/mem"
	"gorm.io/gorm"
)

// ErrNotConfigured 依赖未配置
var ErrNotConfigured = errors.New("not configured")

const (
	defaultCPUInterval = time.Second
	redisPingTimeout   = 2 * time.Second
)

// SystemMetrics 主机资源使用情况
type SystemMetrics struct {
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float64 `json:"memory_percent"`
	DiskPercent   float64 `json:"disk_percent"`
	GoVersion     string  `json:"go_version"`
}

// Service 定义健康服务接口
type Service interface {
	// SystemMetrics 采集主机资源使用情况，采集失败的项为 0
	SystemMetrics(ctx context.Context) SystemMetrics

	// CheckDatabase 检查数据库连接，未配置时返回 ErrNotConfigured
	CheckDatabase(ctx context.Context) error

	// CheckRedis 检查 Redis 连接，未配置时返回 ErrNotConfigured
	CheckRedis(ctx context.Context) error

	// Close 释放 Redis 客户端
	Close() error
}

// Options 健康服务选项
type Options struct {
	DB       *gorm.DB
	RedisURL string

	// CPUInterval CPU 使用率采样间隔，0 值使用 1 秒
	CPUInterval time.Duration

	// DiskPath 统计磁盘使用率的路径，为空时使用 "/"
	DiskPath string
}

type service struct {
	db          *gorm.DB
	redis       *redis.Client
	cpuInterval time.Duration
	diskPath    string
	logger      *slog.Logger
}

// New 创建健康服务
//
// RedisURL 为空时不创建 Redis 客户端，格式错误时返回错误
func New(opts Options, logger *slog.Logger) (Service, error) {
	s := &service{
		db:          opts.DB,
		cpuInterval: opts.CPUInterval,
		diskPath:    opts.DiskPath,
		logger:      logger,
	}
	if s.cpuInterval <= 0 {
		s.cpuInterval = defaultCPUInterval
	}
	if s.diskPath == "" {
		s.diskPath = "/"
	}

	if opts.RedisURL != "" {
		redisOpts, err := redis.ParseURL(opts.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		redisOpts.DialTimeout = redisPingTimeout
		redisOpts.MaxRetries = -1
		s.redis = redis.NewClient(redisOpts)
	}

	return s, nil
}

// SystemMetrics 采集 CPU、内存和磁盘使用率
func (s *service) SystemMetrics(ctx context.Context) SystemMetrics {
	metrics := SystemMetrics{GoVersion: runtime.Version()}

	if percents, err := cpu.PercentWithContext(ctx, s.cpuInterval, false); err != nil {
		s.logger.WarnContext(ctx, "获取 CPU 使用率失败", "error", err)
	} else if len(percents) > 0 {
		metrics.CPUPercent = percents[0]
	}

	if vm, err := mem.VirtualMemoryWithContext(ctx); err != nil {
		s.logger.WarnContext(ctx, "获取内存使用率失败", "error", err)
	} else {
		metrics.MemoryPercent = vm.UsedPercent
	}

	if usage, err := disk.UsageWithContext(ctx, s.diskPath); err != nil {
		s.logger.WarnContext(ctx, "获取磁盘使用率失败", "error", err, "path", s.diskPath)
	} else {
		metrics.DiskPercent = usage.UsedPercent
	}

	return metrics
}

func (s *service) CheckDatabase(ctx context.Context) error {
	if s.db == nil {
		return ErrNotConfigured
	}
	return database.Ping(ctx, s.db)
}

func (s *service) CheckRedis(ctx context.Context) error {
	if s.redis == nil {
		return ErrNotConfigured
	}
	ctx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	return s.redis.Ping(ctx).Err()
}

func (s *service) Close() error {
	if s.redis == nil {
		return nil
	}
	return s.redis.Close()
}

// CheckStatus 将检查结果转换为对外展示的状态文本
func CheckStatus(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotConfigured):
		return "not_configured"
	default:
		return err.Error()
	}
}
