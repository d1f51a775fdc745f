package ai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Service 聊天分发服务接口
type Service interface {
	// Generate 将请求分发到模型对应的供应商并返回归一化结果
	Generate(ctx context.Context, req GenerationRequest) (GenerationResult, error)

	// ConfiguredProviders 返回已配置凭证的供应商
	ConfiguredProviders() []ProviderKind

	// Defaults 返回默认生成参数
	Defaults() Defaults
}

// Option 服务选项
type Option func(*service)

// WithGenerator 使用指定的适配器替换供应商客户端
func WithGenerator(kind ProviderKind, generator Generator) Option {
	return func(s *service) {
		s.generators[kind] = generator
	}
}

// WithUsageRecorder 设置用量记录器
func WithUsageRecorder(recorder UsageRecorder) Option {
	return func(s *service) {
		s.recorder = recorder
	}
}

// service 聊天分发服务实现
type service struct {
	generators map[ProviderKind]Generator
	defaults   Defaults
	recorder   UsageRecorder
	logger     *slog.Logger
}

// New 创建聊天分发服务
//
// 仅为凭证非空的供应商创建客户端，未配置的供应商在被选中时返回 ProviderNotConfiguredError。
//
// 参数：
//   - cfg: 供应商配置
//   - logger: 日志记录器
//   - opts: 可选项，用于注入适配器和用量记录器
func New(cfg ProviderConfig, logger *slog.Logger, opts ...Option) Service {
	s := &service{
		generators: make(map[ProviderKind]Generator, len(ProviderKinds)),
		defaults:   cfg.Defaults,
		logger:     logger,
	}

	for _, kind := range ProviderKinds {
		switch kind {
		case OpenAICompatible:
			if cfg.OpenAIAPIKey != "" {
				s.generators[kind] = NewOpenAIGenerator(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.Timeout)
			}
		case AnthropicCompatible:
			if cfg.AnthropicAPIKey != "" {
				s.generators[kind] = NewAnthropicGenerator(cfg.AnthropicAPIKey, cfg.AnthropicBaseURL, cfg.Timeout)
			}
		default:
			panic(fmt.Sprintf("ai: unhandled provider kind %d", kind))
		}
	}

	for _, opt := range opts {
		opt(s)
	}

	configured := make([]string, 0, len(s.generators))
	for _, kind := range s.ConfiguredProviders() {
		configured = append(configured, kind.String())
	}
	logger.Info("聊天分发服务初始化完成", "providers", configured)

	return s
}

// Generate 处理单次生成请求
func (s *service) Generate(ctx context.Context, req GenerationRequest) (GenerationResult, error) {
	if strings.TrimSpace(req.Message) == "" {
		return GenerationResult{}, ErrEmptyMessage
	}

	requestLogger := s.logger.With("model", req.Model)

	kind, err := ResolveProvider(req.Model)
	if err != nil {
		requestLogger.Warn("无法识别的模型", "error", err)
		s.record(ctx, Usage{Model: req.Model, Err: err})
		return GenerationResult{}, err
	}
	requestLogger = requestLogger.With("provider", kind.String())

	generator := s.generators[kind]
	if generator == nil {
		err := &ProviderNotConfiguredError{Provider: kind}
		requestLogger.Warn("供应商未配置", "error", err)
		s.record(ctx, Usage{Model: req.Model, Provider: kind.String(), Err: err})
		return GenerationResult{}, err
	}

	requestLogger.Debug("开始调用供应商",
		"temperature", req.Temperature,
		"max_tokens", req.MaxTokens)

	startTime := time.Now()
	result, err := generator.Generate(ctx, req)
	duration := time.Since(startTime)

	if err != nil {
		err = &GenerationFailedError{Provider: kind, Model: req.Model, Err: err}
		requestLogger.Error("生成失败", "error", err, "duration", duration)
		s.record(ctx, Usage{Model: req.Model, Provider: kind.String(), Duration: duration, Err: err})
		return GenerationResult{}, err
	}

	requestLogger.Info("生成成功",
		"duration", duration,
		"tokens_used", result.TokensUsed)
	s.record(ctx, Usage{
		Model:      req.Model,
		Provider:   kind.String(),
		Duration:   duration,
		TokensUsed: result.TokensUsed,
	})

	return result, nil
}

// ConfiguredProviders 返回已配置的供应商，顺序与 ProviderKinds 一致
func (s *service) ConfiguredProviders() []ProviderKind {
	kinds := make([]ProviderKind, 0, len(s.generators))
	for _, kind := range ProviderKinds {
		if s.generators[kind] != nil {
			kinds = append(kinds, kind)
		}
	}
	return kinds
}

// Defaults 返回默认生成参数
func (s *service) Defaults() Defaults {
	return s.defaults
}

func (s *service) record(ctx context.Context, usage Usage) {
	if s.recorder != nil {
		s.recorder.RecordUsage(ctx, usage)
	}
}
