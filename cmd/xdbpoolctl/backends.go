package main

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/omeyang/xdbpool/pkg/storage/xdbpool"
	"github.com/omeyang/xdbpool/pkg/storage/xdbpool/clickhouseconn"
	"github.com/omeyang/xdbpool/pkg/storage/xdbpool/mongoconn"
	"github.com/omeyang/xdbpool/pkg/storage/xdbpool/pgxconn"
	"github.com/omeyang/xdbpool/pkg/storage/xdbpool/redisconn"
)

const (
	backendPostgres   = "postgres"
	backendRedis      = "redis"
	backendMongo      = "mongo"
	backendClickHouse = "clickhouse"
)

// backendSpec 描述要连接的后端。
type backendSpec struct {
	Kind     string
	DSN      string
	Insecure bool
}

// target 屏蔽连接句柄类型，命令只关心存活查询和统计。
type target interface {
	Ping(ctx context.Context, name string) error
	Stats() xdbpool.Stats
	Recorder() *xdbpool.Recorder
	Config() xdbpool.Config
	Shutdown(ctx context.Context) error
}

// backend 用具体句柄类型的连接池实现 target。
type backend[H any] struct {
	*xdbpool.Pool[H]
	ping func(ctx context.Context, h H) error
}

func (b *backend[H]) Ping(ctx context.Context, name string) error {
	_, err := xdbpool.Execute(ctx, b.Pool, name, func(ctx context.Context, h H) (struct{}, error) {
		return struct{}{}, b.ping(ctx, h)
	})
	return err
}

func newBackend[H any](ctx context.Context, f xdbpool.Factory[H], cfg xdbpool.Config, ping func(context.Context, H) error, opts ...xdbpool.Option) (target, error) {
	p, err := xdbpool.New(ctx, f, cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &backend[H]{Pool: p, ping: ping}, nil
}

// openTarget 按后端类型创建工厂和连接池。
func openTarget(ctx context.Context, spec backendSpec, cfg xdbpool.Config, opts ...xdbpool.Option) (target, error) {
	if spec.DSN == "" {
		return nil, &usageError{msg: "--dsn (or XDBPOOL_DSN) is required"}
	}

	switch spec.Kind {
	case backendPostgres:
		f, err := pgxconn.New(pgxconn.Config{DSN: spec.DSN, AllowInsecure: spec.Insecure})
		if err != nil {
			return nil, &usageError{msg: err.Error()}
		}
		return newBackend(ctx, xdbpool.Factory[*pgx.Conn](f), cfg, func(ctx context.Context, c *pgx.Conn) error {
			_, err := c.Exec(ctx, "SELECT 1")
			return err
		}, opts...)

	case backendRedis:
		f, err := redisconn.New(redisconn.Config{URL: spec.DSN})
		if err != nil {
			return nil, &usageError{msg: err.Error()}
		}
		return newBackend(ctx, xdbpool.Factory[*redis.Client](f), cfg, func(ctx context.Context, c *redis.Client) error {
			return c.Ping(ctx).Err()
		}, opts...)

	case backendMongo:
		f, err := mongoconn.New(mongoconn.Config{URI: spec.DSN})
		if err != nil {
			return nil, &usageError{msg: err.Error()}
		}
		return newBackend(ctx, xdbpool.Factory[*mongo.Client](f), cfg, func(ctx context.Context, c *mongo.Client) error {
			return c.Ping(ctx, readpref.Primary())
		}, opts...)

	case backendClickHouse:
		f, err := clickhouseconn.New(clickhouseconn.Config{DSN: spec.DSN})
		if err != nil {
			return nil, &usageError{msg: err.Error()}
		}
		return newBackend(ctx, xdbpool.Factory[driver.Conn](f), cfg, func(ctx context.Context, c driver.Conn) error {
			return c.Ping(ctx)
		}, opts...)

	default:
		return nil, &usageError{msg: fmt.Sprintf("unknown backend %q (want postgres|redis|mongo|clickhouse)", spec.Kind)}
	}
}
