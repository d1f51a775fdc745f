package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/MeowSalty/tribeai/config"
	"github.com/MeowSalty/tribeai/database"
	"github.com/MeowSalty/tribeai/logger"
	"github.com/MeowSalty/tribeai/router"
	"github.com/MeowSalty/tribeai/services"
	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	slogfiber "github.com/samber/slog-fiber"
	"gorm.io/gorm"
)

const (
	shutdownTimeout   = 10 * time.Second
	sentryFlushTimeout = 2 * time.Second
)

// Run 启动服务器，收到关闭信号后依次关闭 Web 服务、Sentry、Redis 和数据库
func Run(cfg *config.Config) error {
	// 初始化日志记录器
	appLogger, logFile := logger.InitLogger(cfg.LogLevel, cfg.LogDir, cfg.AppName)
	if logFile != nil {
		defer logFile.Close()
	}

	// 创建日志组
	fiberLogger := appLogger.WithGroup("fiber")
	gormLogger := appLogger.WithGroup("gorm")
	routerLogger := appLogger.WithGroup("router")

	slog.SetDefault(appLogger)

	if cfg.OpenAIAPIKey == "" {
		appLogger.Warn("未配置 OpenAI API Key，gpt 系列模型将不可用")
	}
	if cfg.AnthropicAPIKey == "" {
		appLogger.Warn("未配置 Anthropic API Key，claude 系列模型将不可用")
	}

	// 初始化 Sentry
	sentryEnabled := cfg.SentryDSN != ""
	if sentryEnabled {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			Environment:      cfg.AppEnv,
			Debug:            cfg.AppDebug,
			EnableTracing:    true,
			TracesSampleRate: 0.1,
		})
		if err != nil {
			appLogger.Error("初始化 Sentry 失败，本次运行将禁用错误追踪", "error", err)
			sentryEnabled = false
		}
	}

	// 连接数据库，未配置 DATABASE_URL 时不持久化请求记录
	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		var err error
		db, err = database.Connect(cfg.DatabaseURL, cfg.DatabaseReplicaURLs, gormLogger)
		if err != nil {
			return fmt.Errorf("数据库连接失败：%w", err)
		}
	} else {
		appLogger.Warn("未配置数据库，请求记录将不会被保存")
	}

	// 初始化服务
	appContext := context.Background()
	svcs, err := services.NewServices(appContext, cfg, db, appLogger.WithGroup("services"))
	if err != nil {
		return fmt.Errorf("服务初始化失败：%w", err)
	}

	fiberApp, err := NewApp(cfg, svcs, fiberLogger, routerLogger, sentryEnabled)
	if err != nil {
		return err
	}

	// 启动 Web 服务
	listenErr := make(chan error, 1)
	go func() {
		fiberLogger.Info("Web 服务启动", "addr", cfg.Addr(), "env", cfg.AppEnv)
		listenErr <- fiberApp.Listen(cfg.Addr())
	}()

	// 等待关闭信号
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	var runErr error
	select {
	case <-c:
		appLogger.Info("收到关闭信号，正在关闭应用...")
	case err := <-listenErr:
		runErr = fmt.Errorf("无法启动 Web 服务：%w", err)
	}

	// 关闭 Web 服务
	if err := fiberApp.ShutdownWithTimeout(shutdownTimeout); err != nil {
		fiberLogger.Error("关闭 Web 服务失败", "error", err)
	} else {
		fiberLogger.Info("Web 服务已成功关闭")
	}

	if sentryEnabled {
		sentry.Flush(sentryFlushTimeout)
	}

	if err := svcs.Close(); err != nil {
		appLogger.Error("关闭服务失败", "error", err)
	}

	// 关闭数据库连接
	if db != nil {
		if err := database.Close(db); err != nil {
			appLogger.Error("关闭数据库连接失败", "error", err)
		} else {
			appLogger.Info("数据库连接已成功关闭")
		}
	}

	if runErr == nil {
		appLogger.Info("应用已成功关闭")
	}
	return runErr
}

// NewApp 创建 fiber 应用并注册中间件和路由
func NewApp(cfg *config.Config, svcs *services.Services, fiberLogger, routerLogger *slog.Logger, sentryEnabled bool) (*fiber.App, error) {
	fiberApp := fiber.New(fiber.Config{
		AppName:               cfg.AppName,
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
		ErrorHandler:          errorHandler(fiberLogger),
		DisableStartupMessage: !cfg.AppDebug,
	})

	// 中间件
	fiberApp.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e any) {
			stack := debug.Stack()
			// 将堆栈信息按行分割，以数组形式记录，提高 JSON 日志可读性
			stackLines := strings.Split(strings.TrimSpace(string(stack)), "\n")
			fiberLogger.Error("发生 panic",
				"panic", e,
				"path", c.Path(),
				"method", c.Method(),
				"stack", stackLines,
			)
		},
	}))
	if sentryEnabled {
		// panic 上报后继续抛出，交给 recover 中间件处理
		fiberApp.Use(sentryfiber.New(sentryfiber.Options{Repanic: true}))
	}
	fiberApp.Use(slogfiber.NewWithConfig(fiberLogger, slogfiber.Config{
		Filters: []slogfiber.Filter{
			// 忽略探针请求
			slogfiber.IgnorePathContains("/health"),
		},
	}))

	// 设置路由
	routerConfig := router.Config{
		AllowedOrigins:    cfg.AllowedOrigins,
		ErrorStatusPolicy: cfg.ErrorStatusPolicy,
	}
	if err := router.SetupRoutes(fiberApp, svcs, routerConfig, routerLogger); err != nil {
		return nil, fmt.Errorf("路由设置失败：%w", err)
	}

	return fiberApp, nil
}

// errorHandler 全局错误处理
//
// *fiber.Error 保留状态码和信息，其余错误返回 500 并上报 Sentry
func errorHandler(logger *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(fiber.Map{"detail": fiberErr.Message})
		}

		logger.Error("未处理的错误",
			"error", err,
			"path", c.Path(),
			"method", c.Method(),
		)
		if hub := sentryfiber.GetHubFromContext(c); hub != nil {
			hub.CaptureException(err)
		}

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"detail": "Internal server error",
		})
	}
}
