package xdbpool

import (
	"sync"
	"time"
)

// DefaultRecorderCapacity 默认保留的最近查询记录数。
const DefaultRecorderCapacity = 100

// QueryRecord 是一次成功执行的查询记录。
type QueryRecord struct {
	Name          string
	ExecutionTime time.Duration
	// RowCount 结果行数，非列表结果为 1。
	RowCount  int64
	Timestamp time.Time
}

// Recorder 以环形缓冲区保留最近的查询记录，满时丢弃最旧的一条。
// 所有读取方法返回副本，不会修改内部状态。
type Recorder struct {
	mu   sync.RWMutex
	buf  []QueryRecord
	head int // 最旧记录的位置
	size int
}

// NewRecorder 创建容量为 capacity 的 Recorder，capacity <= 0 时使用默认容量。
func NewRecorder(capacity int) *Recorder {
	if capacity <= 0 {
		capacity = DefaultRecorderCapacity
	}
	return &Recorder{buf: make([]QueryRecord, capacity)}
}

// Record 追加一条记录。
func (r *Recorder) Record(rec QueryRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.size < len(r.buf) {
		r.buf[(r.head+r.size)%len(r.buf)] = rec
		r.size++
		return
	}
	r.buf[r.head] = rec
	r.head = (r.head + 1) % len(r.buf)
}

// Records 返回全部记录的副本，按时间从旧到新排列。
func (r *Recorder) Records() []QueryRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.filterLocked(func(QueryRecord) bool { return true })
}

// SlowQueries 返回执行耗时严格大于 threshold 的记录副本。
func (r *Recorder) SlowQueries(threshold time.Duration) []QueryRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.filterLocked(func(rec QueryRecord) bool { return rec.ExecutionTime > threshold })
}

func (r *Recorder) filterLocked(keep func(QueryRecord) bool) []QueryRecord {
	out := make([]QueryRecord, 0, r.size)
	for i := range r.size {
		rec := r.buf[(r.head+i)%len(r.buf)]
		if keep(rec) {
			out = append(out, rec)
		}
	}
	return out
}

// Len 返回当前记录数。
func (r *Recorder) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.size
}

// Cap 返回容量。
func (r *Recorder) Cap() int {
	return len(r.buf)
}
