package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Env 环境变量配置
type Env struct {
	AppName  string
	AppEnv   string
	AppDebug bool
	AppHost  string
	AppPort  int

	OpenAIAPIKey     string
	OpenAIBaseURL    string
	AnthropicAPIKey  string
	AnthropicBaseURL string

	DatabaseURL         string
	DatabaseReplicaURLs []string // 只读副本，逗号分隔
	RedisURL            string

	SecretKey      string // 暂未使用
	JWTSecret      string // 暂未使用
	AllowedOrigins []string

	SentryDSN string
	LogLevel  string
	LogDir    string

	RateLimitPerMinute int // 仅声明，不做限流
	RateLimitPerHour   int

	DefaultModel      string
	MaxTokens         int
	Temperature       float64
	VendorTimeout     time.Duration
	ErrorStatusPolicy string
}

// defaults 各配置项的默认值
var defaults = map[string]any{
	"APP_NAME":              "tribe-ai-app",
	"APP_ENV":               "production",
	"APP_DEBUG":             false,
	"APP_HOST":              "0.0.0.0",
	"APP_PORT":              8000,
	"OPENAI_API_KEY":        "",
	"OPENAI_BASE_URL":       "",
	"ANTHROPIC_API_KEY":     "",
	"ANTHROPIC_BASE_URL":    "",
	"DATABASE_URL":          "sqlite:///./tribe_ai.db",
	"DATABASE_REPLICA_URLS": "",
	"REDIS_URL":             "redis://localhost:6379/0",
	"SECRET_KEY":            "change-me-in-production",
	"JWT_SECRET":            "change-me-in-production",
	"ALLOWED_ORIGINS":       "http://localhost:3000,http://localhost:8000",
	"SENTRY_DSN":            "",
	"LOG_LEVEL":             "INFO",
	"LOG_DIR":               "log",
	"RATE_LIMIT_PER_MINUTE": 60,
	"RATE_LIMIT_PER_HOUR":   1000,
	"DEFAULT_MODEL":         "gpt-4",
	"MAX_TOKENS":            2000,
	"TEMPERATURE":           0.7,
	"VENDOR_TIMEOUT":        "60s",
	"ERROR_STATUS_POLICY":   "legacy",
}

// LoadEnv 从 .env 文件、可选配置文件和环境变量加载配置
//
// 优先级：环境变量 > CONFIG_FILE 指定的配置文件 > 默认值。
// .env 文件中的变量不会覆盖进程中已存在的环境变量。
func LoadEnv() (*Env, error) {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load env file %s: %w", envFile, err)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if file := os.Getenv("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", file, err)
		}
	}

	return &Env{
		AppName:             v.GetString("APP_NAME"),
		AppEnv:              v.GetString("APP_ENV"),
		AppDebug:            v.GetBool("APP_DEBUG"),
		AppHost:             v.GetString("APP_HOST"),
		AppPort:             v.GetInt("APP_PORT"),
		OpenAIAPIKey:        v.GetString("OPENAI_API_KEY"),
		OpenAIBaseURL:       v.GetString("OPENAI_BASE_URL"),
		AnthropicAPIKey:     v.GetString("ANTHROPIC_API_KEY"),
		AnthropicBaseURL:    v.GetString("ANTHROPIC_BASE_URL"),
		DatabaseURL:         v.GetString("DATABASE_URL"),
		DatabaseReplicaURLs: getList(v, "DATABASE_REPLICA_URLS"),
		RedisURL:            v.GetString("REDIS_URL"),
		SecretKey:           v.GetString("SECRET_KEY"),
		JWTSecret:           v.GetString("JWT_SECRET"),
		AllowedOrigins:      getList(v, "ALLOWED_ORIGINS"),
		SentryDSN:           v.GetString("SENTRY_DSN"),
		LogLevel:            v.GetString("LOG_LEVEL"),
		LogDir:              v.GetString("LOG_DIR"),
		RateLimitPerMinute:  v.GetInt("RATE_LIMIT_PER_MINUTE"),
		RateLimitPerHour:    v.GetInt("RATE_LIMIT_PER_HOUR"),
		DefaultModel:        v.GetString("DEFAULT_MODEL"),
		MaxTokens:           v.GetInt("MAX_TOKENS"),
		Temperature:         v.GetFloat64("TEMPERATURE"),
		VendorTimeout:       v.GetDuration("VENDOR_TIMEOUT"),
		ErrorStatusPolicy:   strings.ToLower(v.GetString("ERROR_STATUS_POLICY")),
	}, nil
}

// getList 读取列表配置
//
// 环境变量使用逗号分隔，配置文件中既可以写成字符串也可以写成数组
func getList(v *viper.Viper, key string) []string {
	var items []string
	switch raw := v.Get(key).(type) {
	case []any:
		for _, item := range raw {
			items = append(items, fmt.Sprint(item))
		}
	case []string:
		items = raw
	default:
		items = strings.Split(v.GetString(key), ",")
	}

	result := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			result = append(result, item)
		}
	}
	return result
}
