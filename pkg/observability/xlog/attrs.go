package xlog

import (
	"log/slog"
	"time"
)

// 常用属性 Key
const (
	KeyError     = "error"
	KeyStack     = "stack"
	KeyDuration  = "duration"
	KeyCount     = "count"
	KeyComponent = "component"
	KeyOperation = "operation"

	// 连接池相关
	KeyConnID     = "conn_id"
	KeyPool       = "pool"
	KeyPoolStatus = "pool_status"
	KeyRows       = "rows"
	KeyBackend    = "backend"
)

// Err 创建错误属性，err 为 nil 时返回会被 slog 忽略的空属性
//
// 示例：
//
//	if err != nil {
//	    logger.Error(ctx, "operation failed", xlog.Err(err))
//	}
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}

// Duration 创建耗时属性
func Duration(d time.Duration) slog.Attr {
	return slog.String(KeyDuration, d.String())
}

// Component 创建组件名属性
func Component(name string) slog.Attr {
	return slog.String(KeyComponent, name)
}

// Operation 创建操作名属性
func Operation(name string) slog.Attr {
	return slog.String(KeyOperation, name)
}

// Count 创建计数属性
func Count(n int64) slog.Attr {
	return slog.Int64(KeyCount, n)
}

// ConnID 创建连接 ID 属性
func ConnID(id string) slog.Attr {
	return slog.String(KeyConnID, id)
}

// Pool 创建连接池名属性
func Pool(name string) slog.Attr {
	return slog.String(KeyPool, name)
}

// PoolStatus 创建连接池健康状态属性
func PoolStatus(status string) slog.Attr {
	return slog.String(KeyPoolStatus, status)
}

// Rows 创建结果行数属性
func Rows(n int64) slog.Attr {
	return slog.Int64(KeyRows, n)
}

// Backend 创建后端类型属性（postgres、redis 等）
func Backend(name string) slog.Attr {
	return slog.String(KeyBackend, name)
}
