package storageopt

import (
	"sync/atomic"
	"time"
)

// ProbeCounter 探活计数器。
type ProbeCounter struct {
	probeCount  atomic.Int64
	probeErrors atomic.Int64
}

// IncProbe 增加探活计数。
func (h *ProbeCounter) IncProbe() {
	h.probeCount.Add(1)
}

// IncProbeError 增加探活失败计数。
func (h *ProbeCounter) IncProbeError() {
	h.probeErrors.Add(1)
}

// ProbeCount 返回探活计数。
func (h *ProbeCounter) ProbeCount() int64 {
	return h.probeCount.Load()
}

// ProbeErrors 返回探活失败计数。
func (h *ProbeCounter) ProbeErrors() int64 {
	return h.probeErrors.Load()
}

// SlowQueryCounter 慢查询计数器。
type SlowQueryCounter struct {
	count atomic.Int64
}

// Inc 增加慢查询计数。
func (s *SlowQueryCounter) Inc() {
	s.count.Add(1)
}

// Count 返回慢查询计数。
func (s *SlowQueryCounter) Count() int64 {
	return s.count.Load()
}

// QueryCounter 查询计数器。
// queryCount 只统计成功执行，失败执行单独计入 queryErrors。
type QueryCounter struct {
	queryCount  atomic.Int64
	queryErrors atomic.Int64
	totalNanos  atomic.Int64
}

// IncQuery 记录一次成功查询及其耗时。
func (q *QueryCounter) IncQuery(d time.Duration) {
	q.queryCount.Add(1)
	q.totalNanos.Add(int64(d))
}

// IncQueryError 增加查询错误计数。
func (q *QueryCounter) IncQueryError() {
	q.queryErrors.Add(1)
}

// QueryCount 返回成功查询计数。
func (q *QueryCounter) QueryCount() int64 {
	return q.queryCount.Load()
}

// QueryErrors 返回查询错误计数。
func (q *QueryCounter) QueryErrors() int64 {
	return q.queryErrors.Load()
}

// AverageDuration 返回成功查询的平均耗时，无查询时为 0。
func (q *QueryCounter) AverageDuration() time.Duration {
	n := q.queryCount.Load()
	if n == 0 {
		return 0
	}
	return time.Duration(q.totalNanos.Load() / n)
}

// MeasureOperation 测量操作耗时。
//
// 使用方式：
//
//	start := time.Now()
//	// ... 操作 ...
//	duration := storageopt.MeasureOperation(start)
func MeasureOperation(start time.Time) time.Duration {
	return time.Since(start)
}
