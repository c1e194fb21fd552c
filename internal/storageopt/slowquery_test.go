package storageopt

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type slowInfo struct {
	Name     string
	Duration time.Duration
}

func TestSlowQueryDetector_Disabled(t *testing.T) {
	var called atomic.Bool
	d, err := NewSlowQueryDetector(SlowQueryOptions[slowInfo]{
		SyncHook: func(context.Context, slowInfo) { called.Store(true) },
	})
	require.NoError(t, err)
	defer d.Close()

	assert.False(t, d.MaybeSlowQuery(context.Background(), slowInfo{}, time.Hour))
	assert.False(t, called.Load())
}

func TestSlowQueryDetector_BelowThreshold(t *testing.T) {
	var called atomic.Bool
	d, err := NewSlowQueryDetector(SlowQueryOptions[slowInfo]{
		Threshold: 100 * time.Millisecond,
		SyncHook:  func(context.Context, slowInfo) { called.Store(true) },
	})
	require.NoError(t, err)
	defer d.Close()

	assert.False(t, d.MaybeSlowQuery(context.Background(), slowInfo{}, 50*time.Millisecond))
	assert.False(t, called.Load())
}

func TestSlowQueryDetector_ExactThresholdIsNotSlow(t *testing.T) {
	var called atomic.Bool
	d, err := NewSlowQueryDetector(SlowQueryOptions[slowInfo]{
		Threshold: 100 * time.Millisecond,
		SyncHook:  func(context.Context, slowInfo) { called.Store(true) },
	})
	require.NoError(t, err)
	defer d.Close()

	assert.False(t, d.MaybeSlowQuery(context.Background(), slowInfo{}, 100*time.Millisecond))
	assert.False(t, called.Load())
	assert.True(t, d.MaybeSlowQuery(context.Background(), slowInfo{}, 100*time.Millisecond+time.Nanosecond))
	assert.True(t, called.Load())
}

func TestSlowQueryDetector_SyncHook(t *testing.T) {
	var got slowInfo
	d, err := NewSlowQueryDetector(SlowQueryOptions[slowInfo]{
		Threshold: 10 * time.Millisecond,
		SyncHook:  func(_ context.Context, info slowInfo) { got = info },
	})
	require.NoError(t, err)
	defer d.Close()

	info := slowInfo{Name: "get_user", Duration: 20 * time.Millisecond}
	assert.True(t, d.MaybeSlowQuery(context.Background(), info, info.Duration))
	assert.Equal(t, info, got)
}

func TestSlowQueryDetector_AsyncHook(t *testing.T) {
	var wg sync.WaitGroup
	wg.Add(1)
	var got atomic.Value
	d, err := NewSlowQueryDetector(SlowQueryOptions[slowInfo]{
		Threshold: 10 * time.Millisecond,
		AsyncHook: func(info slowInfo) {
			got.Store(info)
			wg.Done()
		},
	})
	require.NoError(t, err)
	defer d.Close()

	info := slowInfo{Name: "report"}
	assert.True(t, d.MaybeSlowQuery(context.Background(), info, time.Second))
	wg.Wait()
	assert.Equal(t, info, got.Load())
}

func TestSlowQueryDetector_BothHooks(t *testing.T) {
	var syncCalls, asyncCalls atomic.Int32
	d, err := NewSlowQueryDetector(SlowQueryOptions[slowInfo]{
		Threshold: time.Millisecond,
		SyncHook:  func(context.Context, slowInfo) { syncCalls.Add(1) },
		AsyncHook: func(slowInfo) { asyncCalls.Add(1) },
	})
	require.NoError(t, err)

	d.MaybeSlowQuery(context.Background(), slowInfo{}, time.Second)
	d.Close()

	assert.Equal(t, int32(1), syncCalls.Load())
	assert.Equal(t, int32(1), asyncCalls.Load())
}

func TestSlowQueryDetector_CloseIdempotent(t *testing.T) {
	var asyncCalls atomic.Int32
	d, err := NewSlowQueryDetector(SlowQueryOptions[slowInfo]{
		Threshold: time.Millisecond,
		AsyncHook: func(slowInfo) { asyncCalls.Add(1) },
	})
	require.NoError(t, err)

	d.Close()
	d.Close()

	// 关闭后仍判定为慢查询，但不再投递异步钩子
	assert.True(t, d.MaybeSlowQuery(context.Background(), slowInfo{}, time.Second))
	assert.Equal(t, int32(0), asyncCalls.Load())
}

func TestSlowQueryDetector_Defaults(t *testing.T) {
	d, err := NewSlowQueryDetector(SlowQueryOptions[slowInfo]{Threshold: time.Second})
	require.NoError(t, err)
	defer d.Close()

	assert.Equal(t, DefaultAsyncWorkerPoolSize, d.options.AsyncWorkerPoolSize)
	assert.Equal(t, DefaultAsyncQueueSize, d.options.AsyncQueueSize)
	assert.Equal(t, time.Second, d.Threshold())
}
