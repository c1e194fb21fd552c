package xdbpool

import (
	"context"
	"log/slog"

	"github.com/omeyang/xdbpool/pkg/observability/xlog"
	"github.com/omeyang/xdbpool/pkg/observability/xmetrics"
)

// RunHealthCheck 执行一轮健康检查。健康检查循环按 HealthCheckInterval 调用它，
// 也可以手动调用；多个周期串行执行。
//
// 对本轮开始时的每个空闲连接：
//   - 空闲超过 IdleTimeout 且连接数大于 MinConnections 时直接淘汰，不探活
//   - 否则探活，失败则移除并关闭
//
// 然后补齐到 MinConnections，并按本轮移除的连接（淘汰与探活失败）占比更新 Status。
// 探活期间连接不可被获取，但在统计中仍计为空闲。
func (p *Pool[H]) RunHealthCheck(ctx context.Context) (err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	p.healthMu.Lock()
	defer p.healthMu.Unlock()

	ctx, span := xmetrics.Start(ctx, p.opts.Observer, xmetrics.SpanOptions{
		Component: componentName,
		Operation: "health_check",
		Kind:      xmetrics.KindInternal,
		Attrs:     []xmetrics.Attr{xmetrics.String("pool", p.opts.Name)},
	})

	p.mu.Lock()
	if p.closing {
		p.mu.Unlock()
		span.End(xmetrics.Result{Err: ErrPoolClosed})
		return ErrPoolClosed
	}
	total := p.totalLocked()
	ids := make([]string, 0, len(p.idle))
	for id := range p.idle {
		ids = append(ids, id)
	}
	p.mu.Unlock()

	var evicted, unhealthy int
	for _, id := range ids {
		switch p.checkIdle(ctx, id) {
		case checkEvicted:
			evicted++
		case checkUnhealthy:
			unhealthy++
		}
	}

	p.replenish(ctx)

	status := statusFor(evicted+unhealthy, total)
	p.mu.Lock()
	prev := p.status
	p.status = status
	p.lastHealthCheckAt = p.now()
	closing := p.closing
	p.mu.Unlock()

	attrs := []slog.Attr{
		xlog.PoolStatus(status.String()),
		slog.Int("checked", len(ids)),
		slog.Int("evicted", evicted),
		slog.Int("unhealthy", unhealthy),
	}
	switch {
	case status != prev:
		p.logger.Warn(ctx, "pool status changed", append(attrs, slog.String("previous", prev.String()))...)
	case unhealthy > 0 || evicted > 0:
		p.logger.Info(ctx, "health check completed", attrs...)
	default:
		p.logger.Debug(ctx, "health check completed", attrs...)
	}

	if closing {
		err = ErrPoolClosed
	}
	span.End(xmetrics.Result{
		Err: err,
		Attrs: []xmetrics.Attr{
			xmetrics.String("status", status.String()),
			xmetrics.Int("evicted", evicted),
			xmetrics.Int("unhealthy", unhealthy),
		},
	})
	return err
}

type checkResult int

const (
	checkSkipped checkResult = iota
	checkHealthy
	checkEvicted
	checkUnhealthy
)

// checkIdle 检查单个空闲连接。连接在快照之后已被获取或移除时跳过。
func (p *Pool[H]) checkIdle(ctx context.Context, id string) checkResult {
	p.mu.Lock()
	c, ok := p.idle[id]
	if !ok || p.closing {
		p.mu.Unlock()
		return checkSkipped
	}
	delete(p.idle, id)

	if p.cfg.IdleTimeout > 0 &&
		c.idleFor(p.now()) > p.cfg.IdleTimeout &&
		p.totalLocked()+1 > p.cfg.MinConnections {
		p.wakeWaiterLocked()
		p.mu.Unlock()

		p.evicted.Add(1)
		p.logger.Debug(ctx, "idle connection evicted", xlog.ConnID(id), xlog.Duration(c.idleFor(p.now())))
		p.closeConn(ctx, c)
		return checkEvicted
	}
	p.probing[id] = c
	p.mu.Unlock()

	probeErr := p.probeHandle(ctx, c.handle)

	p.mu.Lock()
	delete(p.probing, id)
	if probeErr != nil {
		p.wakeWaiterLocked()
		p.mu.Unlock()

		p.logger.Warn(ctx, "connection probe failed, removing", xlog.ConnID(id), xlog.Err(probeErr))
		p.closeConn(ctx, c)
		return checkUnhealthy
	}
	if p.closing {
		// Shutdown 等待 healthMu 后统一关闭
		p.idle[id] = c
		p.mu.Unlock()
		return checkHealthy
	}
	p.admitLocked(c)
	p.mu.Unlock()
	return checkHealthy
}
