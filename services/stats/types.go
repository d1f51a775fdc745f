package stats

import "time"

// OverviewResponse 全局概览数据
type OverviewResponse struct {
	Since         time.Time       `json:"since"`          // 统计起始时间
	TotalRequests int64           `json:"total_requests"` // 总请求量
	SuccessRate   float64         `json:"success_rate"`   // 成功率
	TotalTokens   int64           `json:"total_tokens"`   // 总 Token
	Models        []ModelRankItem `json:"models"`         // 按请求量排序的模型统计
}

// ModelRankItem 单个模型的统计
type ModelRankItem struct {
	ModelName    string  `json:"model_name"`    // 模型名称
	RequestCount int64   `json:"request_count"` // 请求数量
	SuccessRate  float64 `json:"success_rate"`  // 成功率
	TotalTokens  int64   `json:"total_tokens"`  // 消耗 Token
	Percentage   float64 `json:"percentage"`    // 占比
}

// RealtimeResponse 实时数据
type RealtimeResponse struct {
	RPM               int64 `json:"rpm"`                // 每分钟请求数
	ActiveConnections int64 `json:"active_connections"` // 活动连接数
}

// ListRequestLogsOptions 请求记录列表的筛选选项
type ListRequestLogsOptions struct {
	StartTime *time.Time
	EndTime   *time.Time
	Success   *bool
	ModelName *string
	Provider  *string
	Page      int
	PageSize  int
}
