package config

import (
	"flag"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// 错误状态码策略
const (
	// PolicyLegacy 所有分发错误统一返回 500
	PolicyLegacy = "legacy"
	// PolicyStrict 按错误类型区分 4xx / 5xx
	PolicyStrict = "strict"
)

// Config 应用配置
type Config struct {
	// 应用配置
	AppName  string
	AppEnv   string
	AppDebug bool
	Host     string
	Port     int

	// 供应商配置
	OpenAIAPIKey     string
	OpenAIBaseURL    string
	AnthropicAPIKey  string
	AnthropicBaseURL string
	VendorTimeout    time.Duration

	// 存储配置
	DatabaseURL         string
	DatabaseReplicaURLs []string
	RedisURL            string

	// 安全配置
	SecretKey      string
	JWTSecret      string
	AllowedOrigins []string

	// 监控配置
	SentryDSN string
	LogLevel  string
	LogDir    string

	// 限流配置
	RateLimitPerMinute int
	RateLimitPerHour   int

	// 模型默认参数
	DefaultModel string
	MaxTokens    int
	Temperature  float64

	// 错误状态码策略 (legacy, strict)
	ErrorStatusPolicy string
}

// LoadConfig 加载配置
//
// 先读取环境变量，再由命令行参数覆盖，最后校验配置。
func LoadConfig(args []string) (*Config, error) {
	env, err := LoadEnv()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		AppName:             env.AppName,
		AppEnv:              env.AppEnv,
		AppDebug:            env.AppDebug,
		Host:                env.AppHost,
		Port:                env.AppPort,
		OpenAIAPIKey:        env.OpenAIAPIKey,
		OpenAIBaseURL:       env.OpenAIBaseURL,
		AnthropicAPIKey:     env.AnthropicAPIKey,
		AnthropicBaseURL:    env.AnthropicBaseURL,
		VendorTimeout:       env.VendorTimeout,
		DatabaseURL:         env.DatabaseURL,
		DatabaseReplicaURLs: env.DatabaseReplicaURLs,
		RedisURL:            env.RedisURL,
		SecretKey:           env.SecretKey,
		JWTSecret:           env.JWTSecret,
		AllowedOrigins:      env.AllowedOrigins,
		SentryDSN:           env.SentryDSN,
		LogLevel:            env.LogLevel,
		LogDir:              env.LogDir,
		RateLimitPerMinute:  env.RateLimitPerMinute,
		RateLimitPerHour:    env.RateLimitPerHour,
		DefaultModel:        env.DefaultModel,
		MaxTokens:           env.MaxTokens,
		Temperature:         env.Temperature,
		ErrorStatusPolicy:   env.ErrorStatusPolicy,
	}

	// 从命令行参数加载配置
	if err := cfg.loadFlags(args); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFlags 从命令行参数加载配置
func (c *Config) loadFlags(args []string) error {
	fs := flag.NewFlagSet("tribeai", flag.ContinueOnError)

	fs.StringVar(&c.Host, "host", c.Host, "监听地址")
	fs.IntVar(&c.Port, "port", c.Port, "监听端口")
	fs.BoolVar(&c.AppDebug, "debug", c.AppDebug, "启用调试模式")

	fs.StringVar(&c.DatabaseURL, "database-url", c.DatabaseURL, "数据库连接串 (sqlite:///path, postgres://..., mysql://...)，为空则不记录请求日志")
	fs.StringVar(&c.RedisURL, "redis-url", c.RedisURL, "Redis 连接串，仅用于健康检查")

	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "日志输出等级 (DEBUG, INFO, WARN, ERROR)")
	fs.StringVar(&c.LogDir, "log-dir", c.LogDir, "日志文件目录，为空则仅输出到终端")

	fs.StringVar(&c.DefaultModel, "default-model", c.DefaultModel, "默认模型")
	fs.DurationVar(&c.VendorTimeout, "vendor-timeout", c.VendorTimeout, "单次供应商调用超时时间")
	fs.StringVar(&c.ErrorStatusPolicy, "error-status-policy", c.ErrorStatusPolicy, "错误状态码策略 (legacy, strict)")

	return fs.Parse(args)
}

// Validate 校验配置
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid APP_PORT %d", c.Port)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("TEMPERATURE must be within [0, 2], got %v", c.Temperature)
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("MAX_TOKENS must be positive, got %d", c.MaxTokens)
	}
	if strings.TrimSpace(c.DefaultModel) == "" {
		return fmt.Errorf("DEFAULT_MODEL must not be empty")
	}
	if c.VendorTimeout <= 0 {
		return fmt.Errorf("VENDOR_TIMEOUT must be positive, got %s", c.VendorTimeout)
	}
	switch c.ErrorStatusPolicy {
	case PolicyLegacy, PolicyStrict:
	default:
		return fmt.Errorf("unknown ERROR_STATUS_POLICY %q", c.ErrorStatusPolicy)
	}
	return nil
}

// Addr 返回监听地址
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
