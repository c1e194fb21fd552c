package xretry

import (
	"context"

	retry "github.com/avast/retry-go/v5"
)

// Option 是 retry-go 的选项，调用方无需直接依赖第三方包。
type Option = retry.Option

// 以下函数镜像 retry-go 中连接创建用到的选项。
var (
	// Attempts 设置总尝试次数（包含首次尝试）。
	// 例如 Attempts(3) 表示最多建连 3 次。
	Attempts = retry.Attempts

	// Delay 设置重试间隔。
	Delay = retry.Delay

	// DelayType 设置延迟类型。
	DelayType = retry.DelayType

	// FixedDelay 固定延迟，对应连接池配置中的 retryDelay。
	FixedDelay = retry.FixedDelay

	// BackOffDelay 指数退避延迟。
	BackOffDelay = retry.BackOffDelay

	// OnRetry 设置重试回调函数，n 从 0 开始。
	OnRetry = retry.OnRetry

	// LastErrorOnly 只返回最后一个错误。
	LastErrorOnly = retry.LastErrorOnly

	// Unrecoverable 将错误标记为不可恢复，retry-go 遇到后立即停止。
	Unrecoverable = retry.Unrecoverable

	// IsRecoverable 检查错误是否可恢复。
	IsRecoverable = retry.IsRecoverable
)

// Do 执行带重试的操作。
//
// ctx 取消后停止重试。只重试 IsRecoverable 且 IsRetryable 的错误，
// 因此 Permanent 与 Unrecoverable 包装的错误会立即返回。
//
// 延迟语义：retry-go 默认使用 CombineDelay(BackOffDelay, RandomDelay)，
// 需要严格固定间隔时传入 DelayType(FixedDelay)。
//
// 示例:
//
//	err := xretry.Do(ctx, func() error {
//	    return conn.Ping(ctx)
//	}, xretry.Attempts(3), xretry.Delay(time.Second), xretry.DelayType(xretry.FixedDelay))
func Do(ctx context.Context, fn func() error, opts ...Option) error {
	return retry.New(defaultOpts(ctx, opts)...).Do(fn)
}

// DoWithData 执行带重试的操作（有返回值），语义同 Do。
func DoWithData[T any](ctx context.Context, fn func() (T, error), opts ...Option) (T, error) {
	return retry.NewWithData[T](defaultOpts(ctx, opts)...).Do(fn)
}

// defaultOpts 在调用方选项之前插入 Context 与错误分类，调用方选项可覆盖它们。
func defaultOpts(ctx context.Context, opts []Option) []Option {
	if ctx == nil {
		ctx = context.Background()
	}
	all := make([]Option, 0, len(opts)+2)
	all = append(all,
		retry.Context(ctx),
		retry.RetryIf(func(err error) bool {
			return IsRecoverable(err) && IsRetryable(err)
		}),
	)
	return append(all, opts...)
}
