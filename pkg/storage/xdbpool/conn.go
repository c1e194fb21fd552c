package xdbpool

import (
	"sync/atomic"
	"time"
)

// PooledConn 是连接池中的一个连接：后端句柄加上池内簿记。
//
// 同一时刻一个 PooledConn 要么在空闲集合，要么被唯一一个调用方持有。
// 调用方通过 Pool.Release(conn.ID()) 归还，归还后不得再使用 Handle。
type PooledConn[H any] struct {
	id        string
	handle    H
	createdAt time.Time

	busy       atomic.Bool
	lastUsedAt atomic.Int64 // unix nano
	queryCount atomic.Int64
	queryNanos atomic.Int64
}

func newPooledConn[H any](id string, h H, now time.Time) *PooledConn[H] {
	c := &PooledConn[H]{id: id, handle: h, createdAt: now}
	c.lastUsedAt.Store(now.UnixNano())
	return c
}

// ID 返回连接的唯一标识，在连接生命周期内不变。
func (c *PooledConn[H]) ID() string { return c.id }

// Handle 返回后端客户端句柄。
func (c *PooledConn[H]) Handle() H { return c.handle }

// CreatedAt 返回连接创建时间。
func (c *PooledConn[H]) CreatedAt() time.Time { return c.createdAt }

// LastUsedAt 返回最近一次被获取或归还的时间。
func (c *PooledConn[H]) LastUsedAt() time.Time {
	return time.Unix(0, c.lastUsedAt.Load())
}

// Busy 报告连接是否被调用方持有。
func (c *PooledConn[H]) Busy() bool { return c.busy.Load() }

// QueryCount 返回该连接上成功执行的查询数。
func (c *PooledConn[H]) QueryCount() int64 { return c.queryCount.Load() }

// TotalQueryTime 返回该连接上成功查询的累计耗时。
func (c *PooledConn[H]) TotalQueryTime() time.Duration {
	return time.Duration(c.queryNanos.Load())
}

func (c *PooledConn[H]) markBusy(now time.Time) {
	c.busy.Store(true)
	c.lastUsedAt.Store(now.UnixNano())
}

func (c *PooledConn[H]) markIdle(now time.Time) {
	c.busy.Store(false)
	c.lastUsedAt.Store(now.UnixNano())
}

func (c *PooledConn[H]) idleFor(now time.Time) time.Duration {
	return now.Sub(c.LastUsedAt())
}

func (c *PooledConn[H]) recordQuery(d time.Duration) {
	c.queryCount.Add(1)
	c.queryNanos.Add(int64(d))
}
