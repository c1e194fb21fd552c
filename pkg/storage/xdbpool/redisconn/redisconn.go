package redisconn

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/omeyang/xdbpool/pkg/resilience/xretry"
	"github.com/omeyang/xdbpool/pkg/storage/xdbpool"
)

var (
	// ErrEmptyAddr 表示 URL 与 Addr 都未设置。
	ErrEmptyAddr = errors.New("redisconn: url or addr is required")

	// ErrInvalidURL 表示 URL 无法解析。解析错误可能包含密码，不作为 cause 返回。
	ErrInvalidURL = errors.New("redisconn: invalid url (expected redis://[user:pass@]host:port/db)")
)

// DefaultDialTimeout 是未设置 Config.DialTimeout 时的建连超时。
const DefaultDialTimeout = 5 * time.Second

// Config Redis 工厂配置。URL 优先于 Addr/Password/DB。
type Config struct {
	URL      string
	Addr     string
	Password string
	DB       int

	DialTimeout time.Duration
}

// Factory 为 xdbpool 创建 *redis.Client。
//
// 每个句柄是只持有一条连接的 client（PoolSize=1），连接的复用由 xdbpool 负责。
type Factory struct {
	opts *redis.Options
}

var _ xdbpool.Factory[*redis.Client] = (*Factory)(nil)

// New 解析配置，不建立连接。
func New(cfg Config) (*Factory, error) {
	var opts *redis.Options
	switch {
	case cfg.URL != "":
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, ErrInvalidURL
		}
		opts = parsed
	case cfg.Addr != "":
		opts = &redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}
	default:
		return nil, ErrEmptyAddr
	}

	opts.PoolSize = 1
	opts.MinIdleConns = 0
	opts.MaxRetries = -1
	opts.DialTimeout = DefaultDialTimeout
	if cfg.DialTimeout > 0 {
		opts.DialTimeout = cfg.DialTimeout
	}
	return &Factory{opts: opts}, nil
}

// Addr 返回目标地址。
func (f *Factory) Addr() string { return f.opts.Addr }

// Create 创建 client 并建立连接。
func (f *Factory) Create(ctx context.Context) (*redis.Client, error) {
	opts := *f.opts
	client := redis.NewClient(&opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close() //nolint:errcheck // 建连失败时的清理
		safe := xdbpool.NewSafeError(fmt.Sprintf("redisconn: connect failed (addr=%s)", f.opts.Addr), err)
		if IsPermanent(err) {
			return nil, xretry.Permanent(safe)
		}
		return nil, safe
	}
	return client, nil
}

// Probe 发送 PING。
func (f *Factory) Probe(ctx context.Context, client *redis.Client) error {
	return client.Ping(ctx).Err()
}

// Close 关闭 client。
func (f *Factory) Close(_ context.Context, client *redis.Client) error {
	return client.Close()
}

// 认证类错误前缀，重试不会改变结果。
var permanentPrefixes = []string{"WRONGPASS", "NOAUTH", "NOPERM", "ERR invalid password", "ERR AUTH"}

// IsPermanent 报告 err 是否为重试无法恢复的认证错误。
func IsPermanent(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, p := range permanentPrefixes {
		if strings.HasPrefix(msg, p) {
			return true
		}
	}
	return false
}
