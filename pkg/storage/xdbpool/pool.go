package xdbpool

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/omeyang/xdbpool/internal/storageopt"
	"github.com/omeyang/xdbpool/pkg/lifecycle/xrun"
	"github.com/omeyang/xdbpool/pkg/observability/xlog"
	"github.com/omeyang/xdbpool/pkg/resilience/xretry"
)

const componentName = "xdbpool"

// waiter 是一个排队等待连接的 Acquire 调用。
//
// ch 容量为 1 且最多被写入一次：非 nil 连接表示直接移交，nil 表示有容量释放、
// 需要重新尝试；ch 被关闭表示连接池开始关闭。
type waiter[H any] struct {
	ch chan *PooledConn[H]
}

// Pool 管理一组可复用的后端句柄。
//
// 所有连接集合的修改都在 mu 下完成，创建、探活、关闭等 IO 操作都在锁外执行。
// pending 为正在创建中的连接预留容量，保证 total + pending <= MaxConnections。
type Pool[H any] struct {
	factory  Factory[H]
	cfg      Config
	opts     *Options
	logger   xlog.Logger
	recorder *Recorder
	slow     *storageopt.SlowQueryDetector[SlowQueryInfo]

	mu                sync.Mutex
	idle              map[string]*PooledConn[H]
	busy              map[string]*PooledConn[H]
	probing           map[string]*PooledConn[H]
	pending           int
	waiters           []*waiter[H]
	closing           bool
	drained           chan struct{}
	status            Status
	lastHealthCheckAt time.Time

	// healthMu 串行化健康检查周期，Shutdown 也持有它来等待进行中的周期。
	healthMu sync.Mutex
	stopLoop context.CancelFunc
	loopDone chan struct{}

	queries           storageopt.QueryCounter
	probes            storageopt.ProbeCounter
	slowQueries       storageopt.SlowQueryCounter
	failedConnections atomic.Int64
	evicted           atomic.Int64
}

// New 创建连接池，预建 MinConnections 个连接并启动健康检查循环。
//
// 预建失败只记录日志并计入 FailedConnections，缺口由健康检查补齐；
// New 只在配置或参数无效时返回错误。
func New[H any](ctx context.Context, factory Factory[H], cfg Config, opts ...Option) (*Pool[H], error) {
	if factory == nil {
		return nil, ErrNilFactory
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	logger := o.Logger
	if logger == nil {
		logger = xlog.Default()
	}
	logger = logger.With(xlog.Component(componentName), xlog.Pool(o.Name))

	slow, err := storageopt.NewSlowQueryDetector(storageopt.SlowQueryOptions[SlowQueryInfo]{
		Threshold:           cfg.SlowQueryThreshold,
		SyncHook:            storageopt.SlowQueryHook[SlowQueryInfo](o.SlowQueryHook),
		AsyncHook:           storageopt.AsyncSlowQueryHook[SlowQueryInfo](o.AsyncSlowQueryHook),
		AsyncWorkerPoolSize: o.AsyncSlowQueryWorkers,
		AsyncQueueSize:      o.AsyncSlowQueryQueueSize,
		PoolName:            componentName + "-" + o.Name,
		Logger:              xlog.ToSlog(logger),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	p := &Pool[H]{
		factory:  factory,
		cfg:      cfg,
		opts:     o,
		logger:   logger,
		recorder: NewRecorder(o.RecorderCapacity),
		slow:     slow,
		idle:     make(map[string]*PooledConn[H]),
		busy:     make(map[string]*PooledConn[H]),
		probing:  make(map[string]*PooledConn[H]),
	}

	p.replenish(ctx)
	p.startHealthLoop()

	p.logger.Info(ctx, "pool started",
		slog.Int("min_connections", cfg.MinConnections),
		slog.Int("max_connections", cfg.MaxConnections),
		slog.Int("connections", p.Stats().TotalConnections),
	)
	return p, nil
}

// Name 返回连接池名称。
func (p *Pool[H]) Name() string { return p.opts.Name }

// Config 返回连接池配置。
func (p *Pool[H]) Config() Config { return p.cfg }

// Recorder 返回最近查询记录器。
func (p *Pool[H]) Recorder() *Recorder { return p.recorder }

func (p *Pool[H]) now() time.Time { return p.opts.now() }

func (p *Pool[H]) totalLocked() int {
	return len(p.idle) + len(p.busy) + len(p.probing)
}

// Acquire 获取一个连接，调用方用完后必须 Release。
//
// 依次尝试：复用任一空闲连接 → 容量未满时新建 → 排队等待归还。
// 从调用开始超过 AcquireTimeout 返回 *AcquireTimeoutError；
// ctx 取消返回 ctx.Err()；连接池关闭返回 ErrPoolClosed。
// 新建失败返回 *ConnectionCreationError，Acquire 本身不再重试。
func (p *Pool[H]) Acquire(ctx context.Context) (*PooledConn[H], error) {
	if ctx == nil {
		ctx = context.Background()
	}
	timer := time.NewTimer(p.cfg.AcquireTimeout)
	defer timer.Stop()

	for {
		p.mu.Lock()
		if p.closing {
			p.mu.Unlock()
			return nil, ErrPoolClosed
		}
		if c := p.takeIdleLocked(); c != nil {
			p.mu.Unlock()
			return c, nil
		}
		if p.totalLocked()+p.pending < p.cfg.MaxConnections {
			p.pending++
			p.mu.Unlock()
			return p.acquireNew(ctx)
		}
		w := &waiter[H]{ch: make(chan *PooledConn[H], 1)}
		p.waiters = append(p.waiters, w)
		p.mu.Unlock()

		select {
		case c, ok := <-w.ch:
			if !ok {
				return nil, ErrPoolClosed
			}
			if c != nil {
				return c, nil
			}
			// 有容量释放，重新尝试
		case <-timer.C:
			if c := p.abandon(w); c != nil {
				return c, nil
			}
			return nil, &AcquireTimeoutError{Timeout: p.cfg.AcquireTimeout}
		case <-ctx.Done():
			if c := p.abandon(w); c != nil {
				p.Release(c.ID())
			}
			return nil, ctx.Err()
		}
	}
}

func (p *Pool[H]) takeIdleLocked() *PooledConn[H] {
	for id, c := range p.idle {
		delete(p.idle, id)
		c.markBusy(p.now())
		p.busy[id] = c
		return c
	}
	return nil
}

// acquireNew 在已预留 pending 的前提下新建连接并直接交给调用方。
func (p *Pool[H]) acquireNew(ctx context.Context) (*PooledConn[H], error) {
	c, err := p.createConn(ctx)

	p.mu.Lock()
	p.pending--
	if err != nil {
		p.wakeWaiterLocked()
		p.mu.Unlock()
		return nil, err
	}
	if p.closing {
		p.mu.Unlock()
		p.closeConn(ctx, c)
		return nil, ErrPoolClosed
	}
	c.markBusy(p.now())
	p.busy[c.id] = c
	p.mu.Unlock()
	return c, nil
}

// abandon 将 w 移出等待队列。若 w 已被出队，说明移交已经发生，
// 返回移交的连接；收到的是容量信号时转交给下一个等待者。
func (p *Pool[H]) abandon(w *waiter[H]) *PooledConn[H] {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, q := range p.waiters {
		if q == w {
			p.waiters = append(p.waiters[:i], p.waiters[i+1:]...)
			return nil
		}
	}
	select {
	case c, ok := <-w.ch:
		if ok && c == nil {
			p.wakeWaiterLocked()
		}
		return c
	default:
		return nil
	}
}

// wakeWaiterLocked 通知队首等待者有容量释放。
func (p *Pool[H]) wakeWaiterLocked() {
	if len(p.waiters) == 0 {
		return
	}
	w := p.waiters[0]
	p.waiters = p.waiters[1:]
	w.ch <- nil
}

// admitLocked 把一个健康的空闲连接交给队首等待者，没有等待者时放回空闲集合。
// 放回空闲集合时不更新 lastUsedAt，探活不算使用。
func (p *Pool[H]) admitLocked(c *PooledConn[H]) {
	if len(p.waiters) > 0 {
		w := p.waiters[0]
		p.waiters = p.waiters[1:]
		c.markBusy(p.now())
		p.busy[c.id] = c
		w.ch <- c
		return
	}
	p.idle[c.id] = c
}

// Release 归还连接。未知 id 与重复归还都是空操作：
// 连接可能已被健康检查或关闭流程移除。
func (p *Pool[H]) Release(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	c, ok := p.busy[id]
	if !ok {
		return
	}
	delete(p.busy, id)
	c.markIdle(p.now())

	if p.closing {
		p.idle[id] = c
		if len(p.busy) == 0 && p.drained != nil {
			close(p.drained)
			p.drained = nil
		}
		return
	}
	p.admitLocked(c)
}

// createConn 通过工厂创建并探活一个新连接，按 RetryAttempts/RetryDelay 固定间隔重试。
func (p *Pool[H]) createConn(ctx context.Context) (*PooledConn[H], error) {
	h, err := xretry.DoWithData(ctx, func() (H, error) {
		h, err := p.factory.Create(ctx)
		if err != nil {
			return h, err
		}
		if err := p.probeHandle(ctx, h); err != nil {
			p.closeHandle(ctx, h)
			var zero H
			return zero, err
		}
		return h, nil
	},
		xretry.Attempts(uint(p.cfg.RetryAttempts)), //nolint:gosec // Validate 保证 >= 1
		xretry.Delay(p.cfg.RetryDelay),
		xretry.DelayType(xretry.FixedDelay),
		xretry.LastErrorOnly(true),
	)
	if err != nil {
		p.failedConnections.Add(1)
		p.logger.Error(ctx, "connection creation failed",
			slog.Int("attempts", p.cfg.RetryAttempts),
			xlog.Err(err),
		)
		return nil, &ConnectionCreationError{Cause: err}
	}

	c := newPooledConn(uuid.NewString(), h, p.now())
	p.logger.Debug(ctx, "connection created", xlog.ConnID(c.id))
	return c, nil
}

func (p *Pool[H]) probeHandle(ctx context.Context, h H) error {
	pctx, cancel := storageopt.HealthContext(ctx, p.cfg.ProbeTimeout)
	defer cancel()

	p.probes.IncProbe()
	if err := p.factory.Probe(pctx, h); err != nil {
		p.probes.IncProbeError()
		return err
	}
	return nil
}

// closeHandle 释放句柄。调用方 ctx 可能已取消，关闭仍需执行，只受 ProbeTimeout 约束。
func (p *Pool[H]) closeHandle(ctx context.Context, h H) {
	cctx, cancel := storageopt.HealthContext(context.WithoutCancel(ctx), p.cfg.ProbeTimeout)
	defer cancel()

	if err := p.factory.Close(cctx, h); err != nil {
		p.logger.Warn(ctx, "close connection failed", xlog.Err(err))
	}
}

func (p *Pool[H]) closeConn(ctx context.Context, c *PooledConn[H]) {
	p.closeHandle(ctx, c.handle)
}

// replenish 同步创建连接直到 total + pending 达到 MinConnections。
// 创建失败时停止本轮补齐，等待下一次健康检查。
func (p *Pool[H]) replenish(ctx context.Context) {
	for {
		p.mu.Lock()
		if p.closing || p.totalLocked()+p.pending >= p.cfg.MinConnections {
			p.mu.Unlock()
			return
		}
		p.pending++
		p.mu.Unlock()

		c, err := p.createConn(ctx)

		p.mu.Lock()
		p.pending--
		if err != nil {
			p.wakeWaiterLocked()
			p.mu.Unlock()
			return
		}
		if p.closing {
			p.mu.Unlock()
			p.closeConn(ctx, c)
			return
		}
		p.admitLocked(c)
		p.mu.Unlock()
	}
}

// Stats 返回统计快照。
func (p *Pool[H]) Stats() Stats {
	p.mu.Lock()
	s := Stats{
		TotalConnections:  p.totalLocked(),
		ActiveConnections: len(p.busy),
		IdleConnections:   len(p.idle) + len(p.probing),
		LastHealthCheckAt: p.lastHealthCheckAt,
		Status:            p.status,
		PendingCreations:  p.pending,
		Waiters:           len(p.waiters),
		Closed:            p.closing,
	}
	p.mu.Unlock()

	s.TotalQueries = p.queries.QueryCount()
	s.QueryErrors = p.queries.QueryErrors()
	s.AverageQueryTime = p.queries.AverageDuration()
	s.FailedConnections = p.failedConnections.Load()
	s.SlowQueries = p.slowQueries.Count()
	s.ProbeCount = p.probes.ProbeCount()
	s.ProbeErrors = p.probes.ProbeErrors()
	s.EvictedConnections = p.evicted.Load()
	return s
}

// Shutdown 关闭连接池，重复调用是空操作。
//
// 立即拒绝新的 Acquire 并唤醒所有等待者，停止健康检查循环，
// 然后等待在用连接归还（受 DrainTimeout 与 ctx 约束），最后关闭全部连接。
// 等待超时返回 ErrDrainTimeout，ctx 取消返回 ctx.Err()；两种情况下连接依然会被关闭。
func (p *Pool[H]) Shutdown(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	p.mu.Lock()
	if p.closing {
		p.mu.Unlock()
		return nil
	}
	p.closing = true
	for _, w := range p.waiters {
		close(w.ch)
	}
	p.waiters = nil
	drained := make(chan struct{})
	if len(p.busy) == 0 {
		close(drained)
	} else {
		p.drained = drained
	}
	active := len(p.busy)
	p.mu.Unlock()

	p.logger.Info(ctx, "pool shutting down", slog.Int("active_connections", active))
	p.stopHealthLoop()

	var drainErr error
	timer := time.NewTimer(p.cfg.DrainTimeout)
	select {
	case <-drained:
	case <-timer.C:
		drainErr = ErrDrainTimeout
	case <-ctx.Done():
		drainErr = ctx.Err()
	}
	timer.Stop()

	// 等待手动触发的健康检查周期结束，之后不会再有连接处于 probing
	p.healthMu.Lock()
	p.mu.Lock()
	conns := make([]*PooledConn[H], 0, p.totalLocked())
	for _, set := range []map[string]*PooledConn[H]{p.idle, p.busy, p.probing} {
		for _, c := range set {
			conns = append(conns, c)
		}
	}
	stillBusy := len(p.busy)
	p.idle = make(map[string]*PooledConn[H])
	p.busy = make(map[string]*PooledConn[H])
	p.probing = make(map[string]*PooledConn[H])
	p.drained = nil
	p.mu.Unlock()
	p.healthMu.Unlock()

	if drainErr != nil {
		p.logger.Warn(ctx, "pool drain incomplete, discarding busy connections",
			slog.Int("busy_connections", stillBusy),
			xlog.Err(drainErr),
		)
	}

	for _, c := range conns {
		p.closeConn(ctx, c)
	}
	p.slow.Close()

	p.logger.Info(ctx, "pool closed", xlog.Count(int64(len(conns))))
	if errors.Is(drainErr, ErrDrainTimeout) {
		return fmt.Errorf("%w after %s", ErrDrainTimeout, p.cfg.DrainTimeout)
	}
	return drainErr
}

func (p *Pool[H]) startHealthLoop() {
	if p.cfg.HealthCheckInterval <= 0 {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	p.stopLoop = cancel
	p.loopDone = make(chan struct{})

	tick := xrun.Ticker(p.cfg.HealthCheckInterval, false, func(ctx context.Context) error {
		// 周期错误只影响状态与日志，不终止循环
		_ = p.RunHealthCheck(ctx) //nolint:errcheck // 见上
		return nil
	})
	go func() {
		defer close(p.loopDone)
		_ = tick(ctx) //nolint:errcheck // 仅在 ctx 取消时返回
	}()
}

func (p *Pool[H]) stopHealthLoop() {
	if p.stopLoop == nil {
		return
	}
	p.stopLoop()
	<-p.loopDone
}
