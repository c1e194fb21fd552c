package xpool

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestNew_InvalidArgs(t *testing.T) {
	_, err := New[int](1, 1, nil)
	assert.ErrorIs(t, err, ErrNilHandler)

	_, err = New(0, 1, func(int) {})
	assert.ErrorIs(t, err, ErrInvalidWorkers)

	_, err = New(maxWorkers+1, 1, func(int) {})
	assert.ErrorIs(t, err, ErrInvalidWorkers)

	_, err = New(1, 0, func(int) {})
	assert.ErrorIs(t, err, ErrInvalidQueueSize)
}

func TestPool_ProcessesAllTasks(t *testing.T) {
	var sum atomic.Int64
	p, err := New(4, 100, func(n int) { sum.Add(int64(n)) })
	require.NoError(t, err)

	for i := 1; i <= 10; i++ {
		require.NoError(t, p.Submit(i))
	}
	require.NoError(t, p.Close())
	assert.Equal(t, int64(55), sum.Load())
}

func TestPool_QueueFull(t *testing.T) {
	release := make(chan struct{})
	var started sync.WaitGroup
	started.Add(1)
	var once sync.Once

	p, err := New(1, 1, func(int) {
		once.Do(started.Done)
		<-release
	})
	require.NoError(t, err)

	require.NoError(t, p.Submit(1))
	started.Wait()
	require.NoError(t, p.Submit(2))
	assert.ErrorIs(t, p.Submit(3), ErrQueueFull)

	close(release)
	require.NoError(t, p.Close())
}

func TestPool_SubmitAfterClose(t *testing.T) {
	p, err := New(1, 1, func(int) {})
	require.NoError(t, err)
	require.NoError(t, p.Close())
	require.NoError(t, p.Close())
	assert.ErrorIs(t, p.Submit(1), ErrPoolStopped)
}

func TestPool_PanicRecovery(t *testing.T) {
	var processed atomic.Int32
	p, err := New(1, 10, func(n int) {
		if n == 1 {
			panic("boom")
		}
		processed.Add(1)
	}, WithName("test"))
	require.NoError(t, err)

	for i := range 3 {
		require.NoError(t, p.Submit(i))
	}
	require.NoError(t, p.Close())
	assert.Equal(t, int32(2), processed.Load())
}

func TestPool_PanicLoggedWithoutTaskValue(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	p, err := New(1, 1, func(string) { panic("hook failed") }, WithName("xdbpool-orders"), WithLogger(logger))
	require.NoError(t, err)
	require.NoError(t, p.Submit("secret-query-text"))
	require.NoError(t, p.Close())

	out := buf.String()
	assert.Contains(t, out, "worker panic recovered")
	assert.Contains(t, out, `"pool":"xdbpool-orders"`)
	assert.Contains(t, out, `"task_type":"string"`)
	assert.NotContains(t, out, "secret-query-text")
}

func TestPool_ShutdownTimeout(t *testing.T) {
	release := make(chan struct{})
	p, err := New(1, 1, func(int) { <-release })
	require.NoError(t, err)
	require.NoError(t, p.Submit(1))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, p.Shutdown(ctx), context.DeadlineExceeded)

	close(release)
	<-p.Done()
}

func TestPool_ShutdownNilContext(t *testing.T) {
	p, err := New(1, 1, func(int) {})
	require.NoError(t, err)
	//nolint:staticcheck // 测试 nil ctx
	assert.ErrorIs(t, p.Shutdown(nil), ErrNilContext)
	require.NoError(t, p.Close())
}
