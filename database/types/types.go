package types

// Types 需要自动迁移的模型
var Types = []interface{}{
	&RequestLog{},
}
