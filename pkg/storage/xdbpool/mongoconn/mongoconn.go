package mongoconn

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/omeyang/xdbpool/pkg/storage/xdbpool"
)

var (
	// ErrEmptyURI 表示未提供连接 URI。
	ErrEmptyURI = errors.New("mongoconn: uri is required")

	// ErrInvalidURI 表示 URI 无法解析。解析错误可能包含密码，不作为 cause 返回。
	ErrInvalidURI = errors.New("mongoconn: invalid uri (expected mongodb:// or mongodb+srv://)")
)

// DefaultConnectTimeout 是未设置 Config.ConnectTimeout 时的建连与选主超时。
const DefaultConnectTimeout = 10 * time.Second

// Config MongoDB 工厂配置。
type Config struct {
	URI string

	// ConnectTimeout 建连与服务器选择超时，默认 10s。
	ConnectTimeout time.Duration
}

// Factory 为 xdbpool 创建 *mongo.Client。
//
// 每个句柄是 MaxPoolSize=1 的 client，连接数由 xdbpool 控制。
type Factory struct {
	uri     string
	timeout time.Duration
}

var _ xdbpool.Factory[*mongo.Client] = (*Factory)(nil)

// New 校验配置，不建立连接。
func New(cfg Config) (*Factory, error) {
	if cfg.URI == "" {
		return nil, ErrEmptyURI
	}
	if !strings.HasPrefix(cfg.URI, "mongodb://") && !strings.HasPrefix(cfg.URI, "mongodb+srv://") {
		return nil, ErrInvalidURI
	}
	f := &Factory{uri: cfg.URI, timeout: DefaultConnectTimeout}
	if cfg.ConnectTimeout > 0 {
		f.timeout = cfg.ConnectTimeout
	}
	if err := f.clientOptions().Validate(); err != nil {
		return nil, ErrInvalidURI
	}
	return f, nil
}

func (f *Factory) clientOptions() *options.ClientOptions {
	return options.Client().
		ApplyURI(f.uri).
		SetMaxPoolSize(1).
		SetMinPoolSize(0).
		SetConnectTimeout(f.timeout).
		SetServerSelectionTimeout(f.timeout)
}

// Create 创建 client 并确认主节点可达。
func (f *Factory) Create(ctx context.Context) (*mongo.Client, error) {
	client, err := mongo.Connect(f.clientOptions())
	if err != nil {
		return nil, xdbpool.NewSafeError("mongoconn: connect failed", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx)) //nolint:errcheck // 建连失败时的清理
		return nil, xdbpool.NewSafeError(fmt.Sprintf("mongoconn: ping failed (timeout=%s)", f.timeout), err)
	}
	return client, nil
}

// Probe 对主节点执行 ping。
func (f *Factory) Probe(ctx context.Context, client *mongo.Client) error {
	return client.Ping(ctx, readpref.Primary())
}

// Close 断开 client。
func (f *Factory) Close(ctx context.Context, client *mongo.Client) error {
	return client.Disconnect(ctx)
}
