package xdbpool

import (
	"context"
	"testing"
)

func BenchmarkAcquireRelease(b *testing.B) {
	p := newTestPool[*fakeConn](b, newFakeFactory(), testConfig(4, 4))
	ctx := context.Background()

	b.ReportAllocs()
	for b.Loop() {
		c, err := p.Acquire(ctx)
		if err != nil {
			b.Fatal(err)
		}
		p.Release(c.ID())
	}
}

func BenchmarkAcquireRelease_Parallel(b *testing.B) {
	p := newTestPool[*fakeConn](b, newFakeFactory(), testConfig(8, 8))
	ctx := context.Background()

	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			c, err := p.Acquire(ctx)
			if err != nil {
				b.Error(err)
				return
			}
			p.Release(c.ID())
		}
	})
}

func BenchmarkExecute(b *testing.B) {
	p := newTestPool[*fakeConn](b, newFakeFactory(), testConfig(4, 4))
	ctx := context.Background()
	op := func(context.Context, *fakeConn) ([]int, error) { return []int{1, 2, 3}, nil }

	b.ReportAllocs()
	for b.Loop() {
		if _, err := Execute(ctx, p, "bench", op); err != nil {
			b.Fatal(err)
		}
	}
}
