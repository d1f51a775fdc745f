package ai

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyMessage 消息为空
	ErrEmptyMessage = errors.New("message must not be empty")

	// ErrEmptyReply 供应商返回了空的 choices 或 content
	ErrEmptyReply = errors.New("vendor reply contains no content")

	// ErrMissingUsage 供应商回复中缺少用量信息
	ErrMissingUsage = errors.New("vendor reply contains no usage")
)

// UnsupportedModelError 模型前缀无法识别
type UnsupportedModelError struct {
	Model string
}

func (e *UnsupportedModelError) Error() string {
	return "Unsupported model: " + e.Model
}

// ProviderNotConfiguredError 选中的供应商没有配置凭证
type ProviderNotConfiguredError struct {
	Provider ProviderKind
}

func (e *ProviderNotConfiguredError) Error() string {
	return e.Provider.DisplayName() + " API key not configured"
}

// GenerationFailedError 供应商调用失败或回复不可用
type GenerationFailedError struct {
	Provider ProviderKind
	Model    string
	Err      error
}

func (e *GenerationFailedError) Error() string {
	return fmt.Sprintf("%s generation failed for model %s: %v", e.Provider.DisplayName(), e.Model, e.Err)
}

func (e *GenerationFailedError) Unwrap() error {
	return e.Err
}

// 错误类型标识，用于日志和统计
const (
	KindEmptyMessage          = "empty_message"
	KindUnsupportedModel      = "unsupported_model"
	KindProviderNotConfigured = "provider_not_configured"
	KindGenerationFailed      = "generation_failed"
	KindInternal              = "internal"
)

// ErrorKind 返回错误对应的类型标识，nil 返回空字符串
func ErrorKind(err error) string {
	var (
		unsupported   *UnsupportedModelError
		notConfigured *ProviderNotConfiguredError
		failed        *GenerationFailedError
	)
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptyMessage):
		return KindEmptyMessage
	case errors.As(err, &unsupported):
		return KindUnsupportedModel
	case errors.As(err, &notConfigured):
		return KindProviderNotConfigured
	case errors.As(err, &failed):
		return KindGenerationFailed
	default:
		return KindInternal
	}
}
