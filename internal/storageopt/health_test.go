package storageopt

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHealthContext_PositiveTimeout(t *testing.T) {
	hctx, cancel := HealthContext(context.Background(), 5*time.Second)
	defer cancel()

	deadline, ok := hctx.Deadline()
	assert.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(5*time.Second), deadline, 100*time.Millisecond)
}

func TestHealthContext_ZeroTimeout(t *testing.T) {
	ctx := context.Background()
	hctx, cancel := HealthContext(ctx, 0)
	defer cancel()

	_, ok := hctx.Deadline()
	assert.False(t, ok)
	assert.Equal(t, ctx, hctx)
}

func TestHealthContext_NilContext(t *testing.T) {
	hctx, cancel := HealthContext(nil, time.Second) //nolint:staticcheck // 测试 nil ctx 归一化
	defer cancel()

	assert.NotNil(t, hctx)
	_, ok := hctx.Deadline()
	assert.True(t, ok)
}

func TestHealthContext_ParentCancel(t *testing.T) {
	parent, cancelParent := context.WithCancel(context.Background())
	hctx, cancel := HealthContext(parent, time.Minute)
	defer cancel()

	cancelParent()
	<-hctx.Done()
	assert.ErrorIs(t, hctx.Err(), context.Canceled)
}
