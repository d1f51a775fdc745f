package types

import (
	"time"
)

// RequestLog 单次聊天分发的记录
//
// 只记录调用元数据，不保存消息和回复内容
type RequestLog struct {
	ID string `gorm:"primaryKey;size:36" json:"id"` // UUID

	Timestamp time.Time `gorm:"index" json:"timestamp"`             // 请求时间 (UTC)
	ModelName string    `gorm:"index;size:128" json:"model_name"`   // 实际使用的模型
	Provider  string    `gorm:"index;size:32" json:"provider"`      // openai / anthropic，无法解析时为空
	Duration  int64     `json:"duration"`                           // 供应商调用耗时 (微秒)
	Tokens    int       `json:"tokens_used"`                        // 消耗的 Token 数
	Success   bool      `gorm:"index" json:"success"`               // 是否成功
	ErrorKind string    `gorm:"size:32" json:"error_kind,omitempty"` // 错误类型
	ErrorMsg  *string   `json:"error_msg,omitempty"`                // 错误信息（失败时）

	CreatedAt time.Time `json:"created_at"`
}
