package xdbpool

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/omeyang/xdbpool/pkg/observability/xlog"
)

var (
	errCreate    = errors.New("fake: dial refused")
	errUnhealthy = errors.New("fake: connection reset")
)

// fakeConn 模拟后端连接句柄。
type fakeConn struct {
	n       int64
	healthy atomic.Bool
	closed  atomic.Bool
}

// fakeFactory 记录创建、关闭次数，可按需注入创建失败与探活阻塞。
type fakeFactory struct {
	seq        atomic.Int64
	creates    atomic.Int64
	closes     atomic.Int64
	failCreate atomic.Bool

	// probeGate 非 nil 时 Probe 阻塞直到通道关闭，仅对 blockProbe 为 true 的调用生效。
	blockProbe atomic.Bool
	probeGate  chan struct{}
	probing    chan struct{}

	mu    sync.Mutex
	conns []*fakeConn
}

func newFakeFactory() *fakeFactory {
	return &fakeFactory{
		probeGate: make(chan struct{}),
		probing:   make(chan struct{}, 16),
	}
}

func (f *fakeFactory) Create(_ context.Context) (*fakeConn, error) {
	f.creates.Add(1)
	if f.failCreate.Load() {
		return nil, errCreate
	}
	c := &fakeConn{n: f.seq.Add(1)}
	c.healthy.Store(true)
	f.mu.Lock()
	f.conns = append(f.conns, c)
	f.mu.Unlock()
	return c, nil
}

func (f *fakeFactory) Probe(ctx context.Context, c *fakeConn) error {
	if f.blockProbe.Load() {
		f.probing <- struct{}{}
		select {
		case <-f.probeGate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if !c.healthy.Load() {
		return errUnhealthy
	}
	return nil
}

func (f *fakeFactory) Close(_ context.Context, c *fakeConn) error {
	c.closed.Store(true)
	f.closes.Add(1)
	return nil
}

func (f *fakeFactory) all() []*fakeConn {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*fakeConn(nil), f.conns...)
}

// fakeClock 是可手动推进的时间源。
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// testConfig 返回不启动后台健康检查、不重试的配置，测试按需覆盖。
func testConfig(minConns, maxConns int) Config {
	return Config{
		MinConnections: minConns,
		MaxConnections: maxConns,
		AcquireTimeout: time.Second,
		RetryAttempts:  1,
		DrainTimeout:   time.Second,
		ProbeTimeout:   time.Second,
	}
}

func discardLogger(tb testing.TB) xlog.Logger {
	tb.Helper()
	l, cleanup, err := xlog.New().SetOutput(io.Discard).Build()
	require.NoError(tb, err)
	tb.Cleanup(func() { _ = cleanup() })
	return l
}

// newTestPool 创建连接池并在测试结束时关闭。
func newTestPool[H any](tb testing.TB, f Factory[H], cfg Config, opts ...Option) *Pool[H] {
	tb.Helper()
	opts = append([]Option{WithLogger(discardLogger(tb))}, opts...)
	p, err := New(context.Background(), f, cfg, opts...)
	require.NoError(tb, err)
	tb.Cleanup(func() {
		_ = p.Shutdown(context.Background())
	})
	return p
}

func requireConsistent[H any](tb testing.TB, p *Pool[H]) Stats {
	tb.Helper()
	s := p.Stats()
	require.Equal(tb, s.TotalConnections, s.ActiveConnections+s.IdleConnections, "stats: %+v", s)
	require.LessOrEqual(tb, s.TotalConnections, p.Config().MaxConnections)
	return s
}
