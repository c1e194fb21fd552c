package storageopt

import (
	"context"
	"time"
)

// DefaultHealthTimeout 默认单次探活超时时间。
const DefaultHealthTimeout = 5 * time.Second

// HealthContext 创建带探活超时的 context。
// nil ctx 归一化为 context.Background()。
// 如果 timeout <= 0，返回原始 context 和空的 cancel 函数。
//
// 使用示例：
//
//	ctx, cancel := storageopt.HealthContext(ctx, timeout)
//	defer cancel()
func HealthContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	if timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}
