package xdbpool

import (
	"strconv"
	"time"
)

// Status 连接池健康状态，由最近一次健康检查计算。
type Status int

const (
	StatusHealthy Status = iota
	StatusDegraded
	StatusCritical
)

// 健康状态阈值：本轮移除的连接数（淘汰与探活失败）/ 本轮开始时的连接总数。
const (
	degradedRatio = 0.2
	criticalRatio = 0.5
)

func (s Status) String() string {
	switch s {
	case StatusHealthy:
		return "healthy"
	case StatusDegraded:
		return "degraded"
	case StatusCritical:
		return "critical"
	default:
		return "Status(" + strconv.Itoa(int(s)) + ")"
	}
}

func statusFor(removed, total int) Status {
	if total <= 0 {
		return StatusHealthy
	}
	ratio := float64(removed) / float64(total)
	switch {
	case ratio > criticalRatio:
		return StatusCritical
	case ratio > degradedRatio:
		return StatusDegraded
	default:
		return StatusHealthy
	}
}

// Stats 连接池统计快照。读取不会修改连接池状态。
//
// 始终满足 ActiveConnections + IdleConnections == TotalConnections。
type Stats struct {
	TotalConnections  int
	ActiveConnections int
	// IdleConnections 包含正在被健康检查探活的连接。
	IdleConnections int

	// TotalQueries 成功执行的查询数。
	TotalQueries int64
	// FailedConnections 累计的连接创建失败次数。
	FailedConnections int64
	// AverageQueryTime 成功查询的平均耗时（连接池生命周期内累计）。
	AverageQueryTime  time.Duration
	LastHealthCheckAt time.Time
	Status            Status

	PendingCreations   int
	Waiters            int
	SlowQueries        int64
	QueryErrors        int64
	ProbeCount         int64
	ProbeErrors        int64
	EvictedConnections int64
	Closed             bool
}

// AverageQueryTimeMs 以毫秒返回平均查询耗时。
func (s Stats) AverageQueryTimeMs() float64 {
	return float64(s.AverageQueryTime) / float64(time.Millisecond)
}
