package stats

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// windowSize 滑动窗口的秒数
const windowSize = 60

// slot 记录某一秒的请求数
type slot struct {
	second int64
	count  int64
}

// Collector 实时数据采集器
//
// 在 API 入口处采集请求数和活动连接数，不依赖数据库
type Collector struct {
	mu    sync.Mutex
	slots [windowSize]slot
	now   func() time.Time

	activeConnections atomic.Int64

	logger *slog.Logger
}

// NewCollector 创建实时数据采集器
func NewCollector(logger *slog.Logger) *Collector {
	return &Collector{now: time.Now, logger: logger}
}

// RecordRequest 记录一次请求
func (c *Collector) RecordRequest() {
	now := c.now().Unix()

	c.mu.Lock()
	defer c.mu.Unlock()

	s := &c.slots[now%windowSize]
	if s.second != now {
		// 该位置保存的是更早一轮的数据，直接覆盖
		s.second = now
		s.count = 0
	}
	s.count++
}

// IncrementConnection 增加活动连接数
func (c *Collector) IncrementConnection() {
	n := c.activeConnections.Add(1)
	c.logger.Debug("增加活动连接", "active_connections", n)
}

// DecrementConnection 减少活动连接数
func (c *Collector) DecrementConnection() {
	n := c.activeConnections.Add(-1)
	c.logger.Debug("减少活动连接", "active_connections", n)
}

// RPM 返回过去 60 秒的请求数
func (c *Collector) RPM() int64 {
	now := c.now().Unix()

	c.mu.Lock()
	defer c.mu.Unlock()

	var total int64
	for _, s := range c.slots {
		if now-s.second < windowSize {
			total += s.count
		}
	}
	return total
}

// ActiveConnections 返回当前活动连接数
func (c *Collector) ActiveConnections() int64 {
	return c.activeConnections.Load()
}
