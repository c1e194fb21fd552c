package xdbpool

import (
	"context"
	"time"

	"github.com/omeyang/xdbpool/internal/storageopt"
	"github.com/omeyang/xdbpool/pkg/observability/xlog"
	"github.com/omeyang/xdbpool/pkg/observability/xmetrics"
)

// SlowQueryInfo 描述一次慢查询。
type SlowQueryInfo struct {
	// Pool 连接池名称。
	Pool string

	// Name 调用方给出的查询名称。
	Name string

	// ConnID 执行查询的连接。
	ConnID string

	// Duration 查询耗时。
	Duration time.Duration

	// Err 查询失败时的错误，成功为 nil。
	Err error
}

// SlowQueryHook 是慢查询同步回调，在请求路径上执行。
//
// 钩子耗时会直接叠加到查询延迟上，网络 IO 等耗时逻辑请使用 AsyncSlowQueryHook。
type SlowQueryHook func(ctx context.Context, info SlowQueryInfo)

// AsyncSlowQueryHook 是慢查询异步回调，由内部 worker pool 执行。
// 队列满时通知被丢弃。
type AsyncSlowQueryHook func(info SlowQueryInfo)

// DefaultName 是未设置 WithName 时的连接池名称。
const DefaultName = "default"

// Options 连接池可选项。
type Options struct {
	// Name 连接池名称，出现在日志与指标属性中。
	Name string

	// Logger 日志记录器，默认 xlog.Default()。
	Logger xlog.Logger

	// Observer 统一观测接口，默认 NoopObserver。
	Observer xmetrics.Observer

	SlowQueryHook           SlowQueryHook
	AsyncSlowQueryHook      AsyncSlowQueryHook
	AsyncSlowQueryWorkers   int
	AsyncSlowQueryQueueSize int

	// RecorderCapacity 最近查询记录的容量，默认 100。
	RecorderCapacity int

	now func() time.Time
}

// Option 配置 Options 的函数类型。
type Option func(*Options)

func defaultOptions() *Options {
	return &Options{
		Name:                    DefaultName,
		Observer:                xmetrics.NoopObserver{},
		AsyncSlowQueryWorkers:   storageopt.DefaultAsyncWorkerPoolSize,
		AsyncSlowQueryQueueSize: storageopt.DefaultAsyncQueueSize,
		RecorderCapacity:        DefaultRecorderCapacity,
		now:                     time.Now,
	}
}

// WithName 设置连接池名称，空值忽略。
func WithName(name string) Option {
	return func(o *Options) {
		if name != "" {
			o.Name = name
		}
	}
}

// WithLogger 设置日志记录器，nil 忽略。
func WithLogger(logger xlog.Logger) Option {
	return func(o *Options) {
		if logger != nil {
			o.Logger = logger
		}
	}
}

// WithObserver 设置统一观测接口，nil 忽略。
func WithObserver(observer xmetrics.Observer) Option {
	return func(o *Options) {
		if observer != nil {
			o.Observer = observer
		}
	}
}

// WithSlowQueryHook 设置慢查询同步回调。
func WithSlowQueryHook(hook SlowQueryHook) Option {
	return func(o *Options) {
		o.SlowQueryHook = hook
	}
}

// WithAsyncSlowQueryHook 设置慢查询异步回调。
func WithAsyncSlowQueryHook(hook AsyncSlowQueryHook) Option {
	return func(o *Options) {
		o.AsyncSlowQueryHook = hook
	}
}

// WithAsyncSlowQueryWorkers 设置异步慢查询 worker 数量，默认 10。
func WithAsyncSlowQueryWorkers(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.AsyncSlowQueryWorkers = n
		}
	}
}

// WithAsyncSlowQueryQueueSize 设置异步慢查询队列大小，默认 1000。
func WithAsyncSlowQueryQueueSize(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.AsyncSlowQueryQueueSize = n
		}
	}
}

// WithRecorderCapacity 设置最近查询记录的容量。
func WithRecorderCapacity(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.RecorderCapacity = n
		}
	}
}

// withClock 替换时间源，仅用于测试空闲淘汰。
func withClock(now func() time.Time) Option {
	return func(o *Options) {
		if now != nil {
			o.now = now
		}
	}
}
