package xdbpool

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// 连接池指标名称。
const (
	MetricConnections       = "xdbpool.connections"
	MetricQueries           = "xdbpool.queries"
	MetricFailedConnections = "xdbpool.connections.failed"
	MetricStatus            = "xdbpool.status"
	MetricAvgQueryDuration  = "xdbpool.query.avg_duration"
)

// RegisterMetrics 将连接池统计注册为 OpenTelemetry 异步指标，
// 每次采集时读取 Stats 快照。返回的函数用于注销回调。
//
// 连接数按 state=active|idle 分别上报，status 取值 0/1/2 对应 healthy/degraded/critical。
func RegisterMetrics[H any](meter metric.Meter, p *Pool[H]) (func() error, error) {
	if meter == nil || p == nil {
		return nil, fmt.Errorf("%w: nil meter or pool", ErrInvalidConfig)
	}

	conns, err := meter.Int64ObservableGauge(MetricConnections,
		metric.WithDescription("Pooled connections by state"),
		metric.WithUnit("{connection}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", MetricConnections, err)
	}
	queries, err := meter.Int64ObservableCounter(MetricQueries,
		metric.WithDescription("Successful queries executed through the pool"),
		metric.WithUnit("{query}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", MetricQueries, err)
	}
	failed, err := meter.Int64ObservableCounter(MetricFailedConnections,
		metric.WithDescription("Failed connection creations"),
		metric.WithUnit("{connection}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", MetricFailedConnections, err)
	}
	status, err := meter.Int64ObservableGauge(MetricStatus,
		metric.WithDescription("Pool health status: 0 healthy, 1 degraded, 2 critical"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", MetricStatus, err)
	}
	avg, err := meter.Float64ObservableGauge(MetricAvgQueryDuration,
		metric.WithDescription("Average successful query duration"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", MetricAvgQueryDuration, err)
	}

	pool := attribute.String("pool", p.Name())
	activeSet := metric.WithAttributes(pool, attribute.String("state", "active"))
	idleSet := metric.WithAttributes(pool, attribute.String("state", "idle"))
	poolSet := metric.WithAttributes(pool)

	reg, err := meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		s := p.Stats()
		o.ObserveInt64(conns, int64(s.ActiveConnections), activeSet)
		o.ObserveInt64(conns, int64(s.IdleConnections), idleSet)
		o.ObserveInt64(queries, s.TotalQueries, poolSet)
		o.ObserveInt64(failed, s.FailedConnections, poolSet)
		o.ObserveInt64(status, int64(s.Status), poolSet)
		o.ObserveFloat64(avg, s.AverageQueryTimeMs(), poolSet)
		return nil
	}, conns, queries, failed, status, avg)
	if err != nil {
		return nil, fmt.Errorf("register xdbpool metrics callback: %w", err)
	}
	return reg.Unregister, nil
}
