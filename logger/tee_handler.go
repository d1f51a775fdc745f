package logger

import (
	"context"
	"errors"
	"log/slog"
)

// teeHandler 同时写入终端和日志文件
//
// 某个输出失败时仍会写入其余输出，错误合并后返回
type teeHandler []slog.Handler

func newTeeHandler(outputs ...slog.Handler) slog.Handler {
	return teeHandler(outputs)
}

func (t teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, out := range t {
		if out.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (t teeHandler) Handle(ctx context.Context, r slog.Record) error {
	var err error
	for _, out := range t {
		if out.Enabled(ctx, r.Level) {
			// 每个输出拿到独立的记录副本
			err = errors.Join(err, out.Handle(ctx, r.Clone()))
		}
	}
	return err
}

func (t teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return t.derive(func(out slog.Handler) slog.Handler { return out.WithAttrs(attrs) })
}

func (t teeHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return t
	}
	return t.derive(func(out slog.Handler) slog.Handler { return out.WithGroup(name) })
}

func (t teeHandler) derive(fn func(slog.Handler) slog.Handler) teeHandler {
	next := make(teeHandler, 0, len(t))
	for _, out := range t {
		next = append(next, fn(out))
	}
	return next
}
