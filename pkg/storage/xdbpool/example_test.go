package xdbpool_test

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/omeyang/xdbpool/pkg/observability/xlog"
	"github.com/omeyang/xdbpool/pkg/storage/xdbpool"
)

// memConn 是示例用的内存"连接"。
type memConn struct {
	rows []string
}

func Example() {
	ctx := context.Background()
	logger, cleanup, _ := xlog.New().SetOutput(io.Discard).Build()
	defer cleanup() //nolint:errcheck // example

	factory := xdbpool.FactoryFuncs[*memConn]{
		CreateFunc: func(context.Context) (*memConn, error) {
			return &memConn{rows: []string{"alice", "bob"}}, nil
		},
		ProbeFunc: func(context.Context, *memConn) error { return nil },
	}

	cfg := xdbpool.DefaultConfig()
	cfg.MinConnections = 2
	cfg.MaxConnections = 4
	cfg.HealthCheckInterval = 0

	pool, err := xdbpool.New(ctx, factory, cfg, xdbpool.WithName("users"), xdbpool.WithLogger(logger))
	if err != nil {
		fmt.Println("new:", err)
		return
	}
	defer pool.Shutdown(ctx) //nolint:errcheck // example

	users, err := xdbpool.Execute(ctx, pool, "list_users", func(_ context.Context, c *memConn) ([]string, error) {
		return c.rows, nil
	})
	if err != nil {
		fmt.Println("query:", err)
		return
	}
	fmt.Println(strings.Join(users, ","))

	s := pool.Stats()
	fmt.Println("total:", s.TotalConnections, "idle:", s.IdleConnections, "queries:", s.TotalQueries)
	fmt.Println("rows:", pool.Recorder().Records()[0].RowCount)
	// Output:
	// alice,bob
	// total: 2 idle: 2 queries: 1
	// rows: 2
}

func ExampleIsUnavailable() {
	err := error(&xdbpool.AcquireTimeoutError{Timeout: 2 * time.Second})
	fmt.Println(xdbpool.IsUnavailable(err))
	fmt.Println(err)
	// Output:
	// true
	// xdbpool: no connection available within 2s
}
