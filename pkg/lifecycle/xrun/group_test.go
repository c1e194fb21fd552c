package xrun

import (
	"context"
	"errors"
	"os"
	"sync/atomic"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func waitForDone(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestDefaultSignals(t *testing.T) {
	a := DefaultSignals()
	assert.Equal(t, []os.Signal{syscall.SIGINT, syscall.SIGTERM}, a)
	a[0] = syscall.SIGHUP
	assert.Equal(t, syscall.SIGINT, DefaultSignals()[0])
}

func TestGroup_FirstErrorCancelsOthers(t *testing.T) {
	boom := errors.New("boom")
	g, _ := NewGroup(context.Background(), WithName("test"))

	g.GoWithName("waiter", waitForDone)
	g.GoWithName("failer", func(context.Context) error { return boom })

	assert.ErrorIs(t, g.Wait(), boom)
}

func TestGroup_CancelCause(t *testing.T) {
	stop := errors.New("stop requested")
	g, _ := NewGroup(context.Background())
	g.Go(waitForDone)
	g.Cancel(stop)
	assert.ErrorIs(t, g.Wait(), stop)
}

func TestGroup_PlainCancelReturnsNil(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	g, _ := NewGroup(ctx)
	g.Go(waitForDone)
	cancel()
	assert.NoError(t, g.Wait())
}

func TestGroup_NilFunc(t *testing.T) {
	//nolint:staticcheck // 测试 nil ctx
	g, gctx := NewGroup(nil, nil)
	assert.NotNil(t, gctx)
	g.Go(nil)
	assert.ErrorIs(t, g.Wait(), ErrNilFunc)
}

func TestGroup_InternalCanceledIsKept(t *testing.T) {
	g, _ := NewGroup(context.Background())
	g.Go(func(context.Context) error { return context.Canceled })
	assert.ErrorIs(t, g.Wait(), context.Canceled)
}

func TestRun_Signal(t *testing.T) {
	sigc := make(chan os.Signal, 1)
	ctx := withTestSigChan(context.Background(), sigc)
	sigc <- syscall.SIGTERM

	err := Run(ctx, waitForDone)
	require.ErrorIs(t, err, ErrSignal)

	var sigErr *SignalError
	require.ErrorAs(t, err, &sigErr)
	assert.Equal(t, syscall.SIGTERM, sigErr.Signal)
	assert.Equal(t, "received signal terminated", sigErr.Error())
}

func TestRunWithOptions_NoSignalHandler(t *testing.T) {
	err := RunWithOptions(context.Background(), []Option{WithoutSignalHandler(), WithSignals(nil)},
		func(context.Context) error { return nil })
	assert.NoError(t, err)
}

func TestTicker(t *testing.T) {
	var calls atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())

	err := Ticker(5*time.Millisecond, true, func(context.Context) error {
		if calls.Add(1) == 3 {
			cancel()
		}
		return nil
	})(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	assert.GreaterOrEqual(t, calls.Load(), int32(3))
}

func TestTicker_Errors(t *testing.T) {
	ctx := context.Background()
	assert.ErrorIs(t, Ticker(0, false, func(context.Context) error { return nil })(ctx), ErrInvalidInterval)
	assert.ErrorIs(t, Ticker(time.Second, false, nil)(ctx), ErrNilFunc)

	boom := errors.New("boom")
	assert.ErrorIs(t, Ticker(time.Millisecond, false, func(context.Context) error { return boom })(ctx), boom)

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, Ticker(time.Second, true, func(context.Context) error { return nil })(canceled), context.Canceled)
}
