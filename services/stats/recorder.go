package stats

import (
	"context"
	"time"

	"github.com/MeowSalty/tribeai/database/types"
	"github.com/MeowSalty/tribeai/services/ai"
	"github.com/google/uuid"
)

// writeTimeout 单条请求记录的写入超时
const writeTimeout = 5 * time.Second

// RecordUsage 持久化一次分发的用量记录
//
// 写入在后台进行，失败只记录日志，不影响请求本身。Close 会等待未完成的写入。
func (s *service) RecordUsage(ctx context.Context, usage ai.Usage) {
	if s.db == nil {
		return
	}

	entry := &types.RequestLog{
		ID:        uuid.NewString(),
		Timestamp: s.now().UTC(),
		ModelName: usage.Model,
		Provider:  usage.Provider,
		Duration:  usage.Duration.Microseconds(),
		Tokens:    usage.TokensUsed,
		Success:   usage.Err == nil,
		ErrorKind: ai.ErrorKind(usage.Err),
	}
	if usage.Err != nil {
		msg := usage.Err.Error()
		entry.ErrorMsg = &msg
	}

	// 请求结束后上下文会被取消，写入使用独立的超时
	writeCtx := context.WithoutCancel(ctx)

	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		s.write(writeCtx, entry)
	}()
}

func (s *service) write(ctx context.Context, entry *types.RequestLog) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		s.logger.Warn("保存请求记录失败", "error", err, "model", entry.ModelName)
	}
}

// Close 等待后台写入完成
func (s *service) Close() error {
	s.pending.Wait()
	return nil
}
