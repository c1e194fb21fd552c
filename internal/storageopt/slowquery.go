package storageopt

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/omeyang/xdbpool/pkg/util/xpool"
)

// SlowQueryHook 慢查询同步回调钩子，在请求路径上同步执行。
//
// 注意：任何耗时操作（如网络 IO、重日志）都会增加请求延迟。
// 如需避免阻塞，请使用 AsyncSlowQueryHook。
type SlowQueryHook[T any] func(ctx context.Context, info T)

// AsyncSlowQueryHook 慢查询异步回调钩子，通过 worker pool 执行。
// 不接收 context，异步执行时原始 context 可能已取消。
type AsyncSlowQueryHook[T any] func(info T)

// SlowQueryOptions 慢查询检测配置。
type SlowQueryOptions[T any] struct {
	// Threshold 慢查询阈值，耗时严格大于阈值才视为慢查询。
	// 为 0 时禁用慢查询检测。
	Threshold time.Duration

	// SyncHook 同步回调钩子。
	SyncHook SlowQueryHook[T]

	// AsyncHook 异步回调钩子。
	// 与 SyncHook 同时设置时两者都会被调用。
	AsyncHook AsyncSlowQueryHook[T]

	// AsyncWorkerPoolSize 异步 worker 数量，默认 10。
	AsyncWorkerPoolSize int

	// AsyncQueueSize 异步任务队列大小，默认 1000。
	// 队列满时新任务被丢弃。
	AsyncQueueSize int

	// PoolName 异步 worker pool 名称，出现在 panic 日志中。
	PoolName string

	// Logger 记录异步钩子 panic，nil 时使用 slog.Default()。
	Logger *slog.Logger
}

// 默认值常量。
const (
	DefaultAsyncWorkerPoolSize = 10
	DefaultAsyncQueueSize      = 1000
)

// SlowQueryDetector 慢查询检测器。
type SlowQueryDetector[T any] struct {
	options SlowQueryOptions[T]
	pool    *xpool.Pool[T]
	mu      sync.RWMutex
	closed  bool
}

// NewSlowQueryDetector 创建慢查询检测器。
//
// AsyncHook 不为 nil 时立即创建 worker pool，参数超出 xpool 允许范围时返回错误。
func NewSlowQueryDetector[T any](opts SlowQueryOptions[T]) (*SlowQueryDetector[T], error) {
	if opts.AsyncWorkerPoolSize <= 0 {
		opts.AsyncWorkerPoolSize = DefaultAsyncWorkerPoolSize
	}
	if opts.AsyncQueueSize <= 0 {
		opts.AsyncQueueSize = DefaultAsyncQueueSize
	}

	d := &SlowQueryDetector[T]{options: opts}

	if opts.AsyncHook != nil {
		pool, err := xpool.New(
			opts.AsyncWorkerPoolSize,
			opts.AsyncQueueSize,
			opts.AsyncHook,
			xpool.WithName(opts.PoolName),
			xpool.WithLogger(opts.Logger),
		)
		if err != nil {
			return nil, fmt.Errorf("storageopt: create async pool: %w", err)
		}
		d.pool = pool
	}

	return d, nil
}

// Threshold 返回慢查询阈值。
func (d *SlowQueryDetector[T]) Threshold() time.Duration {
	return d.options.Threshold
}

// IsSlow 判断耗时是否构成慢查询，不触发钩子。
func (d *SlowQueryDetector[T]) IsSlow(duration time.Duration) bool {
	return d.options.Threshold > 0 && duration > d.options.Threshold
}

// MaybeSlowQuery 检测并可能触发慢查询钩子，返回是否判定为慢查询。
// ctx 仅传给同步钩子。
func (d *SlowQueryDetector[T]) MaybeSlowQuery(ctx context.Context, info T, duration time.Duration) bool {
	if !d.IsSlow(duration) {
		return false
	}

	if d.options.SyncHook != nil {
		d.options.SyncHook(ctx, info)
	}

	d.mu.RLock()
	if !d.closed && d.pool != nil {
		d.pool.Submit(info) //nolint:errcheck,gosec // 队列满时丢弃慢查询通知
	}
	d.mu.RUnlock()

	return true
}

// Close 关闭检测器并等待已提交的异步钩子执行完毕。重复调用安全。
//
// 设计决策: pool 引用在锁内取出，pool.Close() 在锁外执行，
// 排空期间并发的 MaybeSlowQuery 看到 closed 后直接跳过提交，不会被写锁阻塞。
func (d *SlowQueryDetector[T]) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	pool := d.pool
	d.pool = nil
	d.mu.Unlock()

	if pool != nil {
		pool.Close() //nolint:errcheck,gosec // Close 在此只会返回 nil
	}
}
