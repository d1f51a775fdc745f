package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// ParseLevel 解析日志等级，无法识别时返回 INFO
func ParseLevel(logLevel string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(logLevel)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR", "CRITICAL":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// InitLogger 初始化日志记录器
//
// 终端输出普通文本格式，logDir 不为空时同时按日期写入 JSON 格式的日志文件。
// 返回的 io.Closer 用于在退出时关闭日志文件，可能为 nil。
func InitLogger(logLevel, logDir, baseName string) (*slog.Logger, io.Closer) {
	level := ParseLevel(logLevel)

	consoleHandler := newPlainTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	if logDir == "" {
		return slog.New(consoleHandler), nil
	}

	file, err := newDailyFile(logDir, baseName)
	if err != nil {
		// 无法创建日志文件时仅输出到终端
		l := slog.New(consoleHandler)
		l.Error("无法创建日志文件，将仅输出到终端", "error", err, "dir", logDir)
		return l, nil
	}

	fileHandler := slog.NewJSONHandler(file, &slog.HandlerOptions{Level: level})
	return slog.New(newTeeHandler(consoleHandler, fileHandler)), file
}
