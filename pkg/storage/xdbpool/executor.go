package xdbpool

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"time"

	"github.com/omeyang/xdbpool/internal/storageopt"
	"github.com/omeyang/xdbpool/pkg/observability/xlog"
	"github.com/omeyang/xdbpool/pkg/observability/xmetrics"
)

// DefaultQueryName 是 WithPooledConnection 使用的查询名称。
const DefaultQueryName = "query"

// RowsAffecter 由报告影响行数的结果实现，例如 pgconn.CommandTag。
type RowsAffecter interface {
	RowsAffected() int64
}

// Execute 获取连接执行 op 并归还连接，无论 op 成功与否连接都会被归还。
//
// 成功时记录查询耗时与行数；耗时超过 SlowQueryThreshold 时记为慢查询并触发钩子。
// 获取失败与 op 的错误原样返回：获取失败时 op 不会被调用。
// op panic 时计为失败查询并记录日志，连接归还后继续向上 panic。
//
// 设计决策: 泛型函数而非方法，Go 方法不能声明额外的类型参数 T。
func Execute[H, T any](ctx context.Context, p *Pool[H], name string, op func(ctx context.Context, h H) (T, error)) (T, error) {
	var zero T
	if op == nil {
		return zero, ErrNilOperation
	}
	if ctx == nil {
		ctx = context.Background()
	}

	conn, err := p.Acquire(ctx)
	if err != nil {
		return zero, err
	}
	defer p.Release(conn.ID())

	ctx, span := xmetrics.Start(ctx, p.opts.Observer, xmetrics.SpanOptions{
		Component: componentName,
		Operation: name,
		Kind:      xmetrics.KindClient,
		Attrs: []xmetrics.Attr{
			xmetrics.String("pool", p.opts.Name),
			xmetrics.String("conn_id", conn.ID()),
		},
	})

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			elapsed := storageopt.MeasureOperation(start)
			p.queries.IncQueryError()
			span.End(xmetrics.Result{Err: fmt.Errorf("panic: %v", r)})
			p.logger.Stack(ctx, "query panicked",
				xlog.Operation(name),
				xlog.ConnID(conn.ID()),
				xlog.Duration(elapsed),
				slog.Any("panic", r),
			)
			panic(r)
		}
	}()

	result, err := op(ctx, conn.Handle())
	elapsed := storageopt.MeasureOperation(start)

	if p.slow.MaybeSlowQuery(ctx, SlowQueryInfo{
		Pool:     p.opts.Name,
		Name:     name,
		ConnID:   conn.ID(),
		Duration: elapsed,
		Err:      err,
	}, elapsed) {
		p.slowQueries.Inc()
		p.logger.Warn(ctx, "slow query",
			xlog.Operation(name),
			xlog.ConnID(conn.ID()),
			xlog.Duration(elapsed),
		)
	}

	if err != nil {
		p.queries.IncQueryError()
		span.End(xmetrics.Result{Err: err})
		p.logger.Error(ctx, "query failed",
			xlog.Operation(name),
			xlog.ConnID(conn.ID()),
			xlog.Duration(elapsed),
			xlog.Err(err),
		)
		return result, err
	}

	rows := rowCount(result)
	conn.recordQuery(elapsed)
	p.queries.IncQuery(elapsed)
	p.recorder.Record(QueryRecord{
		Name:          name,
		ExecutionTime: elapsed,
		RowCount:      rows,
		Timestamp:     p.now(),
	})
	span.End(xmetrics.Result{Attrs: []xmetrics.Attr{xmetrics.Int64("rows", rows)}})
	p.logger.Debug(ctx, "query executed",
		xlog.Operation(name),
		xlog.ConnID(conn.ID()),
		xlog.Duration(elapsed),
		xlog.Rows(rows),
	)
	return result, nil
}

// WithPooledConnection 以默认名称 "query" 执行 op，语义同 Execute。
func WithPooledConnection[H, T any](ctx context.Context, p *Pool[H], op func(ctx context.Context, h H) (T, error)) (T, error) {
	return Execute(ctx, p, DefaultQueryName, op)
}

// rowCount 推断结果行数：实现 RowsAffecter 时取其值，
// 切片、数组、map 取长度，其他结果计为 1。
func rowCount(result any) int64 {
	if result == nil {
		return 1
	}
	if ra, ok := result.(RowsAffecter); ok {
		return ra.RowsAffected()
	}
	v := reflect.ValueOf(result)
	switch v.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return int64(v.Len())
	default:
		return 1
	}
}
