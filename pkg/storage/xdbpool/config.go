package xdbpool

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/omeyang/xdbpool/pkg/config/xconf"
)

// EnvPrefix 是连接池环境变量的前缀，例如 DB_POOL_MAX_CONNECTIONS。
const EnvPrefix = "DB_POOL_"

// 默认配置值。
const (
	DefaultMinConnections      = 5
	DefaultMaxConnections      = 20
	DefaultIdleTimeout         = 5 * time.Minute
	DefaultAcquireTimeout      = 10 * time.Second
	DefaultHealthCheckInterval = 30 * time.Second
	DefaultRetryAttempts       = 3
	DefaultRetryDelay          = time.Second
	DefaultDrainTimeout        = 30 * time.Second
	DefaultSlowQueryThreshold  = time.Second
	DefaultProbeTimeout        = 5 * time.Second
)

// Config 连接池配置，构造后不可变。
type Config struct {
	// MinConnections 连接数下限。构造时预建，健康检查负责补齐。
	MinConnections int

	// MaxConnections 连接数上限（含正在创建中的连接），必须 >= MinConnections 且 >= 1。
	MaxConnections int

	// IdleTimeout 空闲超过该时长的连接在健康检查中被淘汰（不低于 MinConnections）。
	// 为 0 时不做空闲淘汰。
	IdleTimeout time.Duration

	// AcquireTimeout 从调用 Acquire 起等待可用连接的上限。
	AcquireTimeout time.Duration

	// HealthCheckInterval 健康检查周期。为 0 时不启动后台循环，可手动调用 RunHealthCheck。
	HealthCheckInterval time.Duration

	// RetryAttempts 创建单个连接的总尝试次数（含首次），仅用于工厂创建。
	RetryAttempts int

	// RetryDelay 创建重试的固定间隔。
	RetryDelay time.Duration

	// DrainTimeout 关闭时等待在用连接归还的上限。
	DrainTimeout time.Duration

	// SlowQueryThreshold 执行耗时严格大于该值视为慢查询。为 0 时禁用。
	SlowQueryThreshold time.Duration

	// ProbeTimeout 单次探活的超时。为 0 时只受调用方 ctx 约束。
	ProbeTimeout time.Duration
}

// DefaultConfig 返回默认配置。
func DefaultConfig() Config {
	return Config{
		MinConnections:      DefaultMinConnections,
		MaxConnections:      DefaultMaxConnections,
		IdleTimeout:         DefaultIdleTimeout,
		AcquireTimeout:      DefaultAcquireTimeout,
		HealthCheckInterval: DefaultHealthCheckInterval,
		RetryAttempts:       DefaultRetryAttempts,
		RetryDelay:          DefaultRetryDelay,
		DrainTimeout:        DefaultDrainTimeout,
		SlowQueryThreshold:  DefaultSlowQueryThreshold,
		ProbeTimeout:        DefaultProbeTimeout,
	}
}

// Validate 校验配置，失败时返回包装了 ErrInvalidConfig 的错误。
func (c Config) Validate() error {
	switch {
	case c.MinConnections < 0:
		return fmt.Errorf("%w: min_connections must not be negative, got %d", ErrInvalidConfig, c.MinConnections)
	case c.MaxConnections < 1:
		return fmt.Errorf("%w: max_connections must be at least 1, got %d", ErrInvalidConfig, c.MaxConnections)
	case c.MaxConnections < c.MinConnections:
		return fmt.Errorf("%w: max_connections (%d) < min_connections (%d)", ErrInvalidConfig, c.MaxConnections, c.MinConnections)
	case c.AcquireTimeout <= 0:
		return fmt.Errorf("%w: connection_timeout must be positive", ErrInvalidConfig)
	case c.RetryAttempts < 1:
		return fmt.Errorf("%w: retry_attempts must be at least 1, got %d", ErrInvalidConfig, c.RetryAttempts)
	case c.IdleTimeout < 0, c.HealthCheckInterval < 0, c.RetryDelay < 0,
		c.DrainTimeout < 0, c.SlowQueryThreshold < 0, c.ProbeTimeout < 0:
		return fmt.Errorf("%w: durations must not be negative", ErrInvalidConfig)
	}
	return nil
}

// fileConfig 是配置在文件与环境变量中的形态：时长均为毫秒整数。
type fileConfig struct {
	MinConnections      int   `koanf:"min_connections" json:"min_connections"`
	MaxConnections      int   `koanf:"max_connections" json:"max_connections"`
	IdleTimeout         int64 `koanf:"idle_timeout" json:"idle_timeout"`
	ConnectionTimeout   int64 `koanf:"connection_timeout" json:"connection_timeout"`
	RetryAttempts       int   `koanf:"retry_attempts" json:"retry_attempts"`
	RetryDelay          int64 `koanf:"retry_delay" json:"retry_delay"`
	HealthCheckInterval int64 `koanf:"health_check_interval" json:"health_check_interval"`
	DrainTimeout        int64 `koanf:"drain_timeout" json:"drain_timeout"`
	SlowQueryThreshold  int64 `koanf:"slow_query_threshold" json:"slow_query_threshold"`
	ProbeTimeout        int64 `koanf:"probe_timeout" json:"probe_timeout"`
}

func toFileConfig(c Config) fileConfig {
	return fileConfig{
		MinConnections:      c.MinConnections,
		MaxConnections:      c.MaxConnections,
		IdleTimeout:         c.IdleTimeout.Milliseconds(),
		ConnectionTimeout:   c.AcquireTimeout.Milliseconds(),
		RetryAttempts:       c.RetryAttempts,
		RetryDelay:          c.RetryDelay.Milliseconds(),
		HealthCheckInterval: c.HealthCheckInterval.Milliseconds(),
		DrainTimeout:        c.DrainTimeout.Milliseconds(),
		SlowQueryThreshold:  c.SlowQueryThreshold.Milliseconds(),
		ProbeTimeout:        c.ProbeTimeout.Milliseconds(),
	}
}

func (f fileConfig) config() Config {
	return Config{
		MinConnections:      f.MinConnections,
		MaxConnections:      f.MaxConnections,
		IdleTimeout:         time.Duration(f.IdleTimeout) * time.Millisecond,
		AcquireTimeout:      time.Duration(f.ConnectionTimeout) * time.Millisecond,
		RetryAttempts:       f.RetryAttempts,
		RetryDelay:          time.Duration(f.RetryDelay) * time.Millisecond,
		HealthCheckInterval: time.Duration(f.HealthCheckInterval) * time.Millisecond,
		DrainTimeout:        time.Duration(f.DrainTimeout) * time.Millisecond,
		SlowQueryThreshold:  time.Duration(f.SlowQueryThreshold) * time.Millisecond,
		ProbeTimeout:        time.Duration(f.ProbeTimeout) * time.Millisecond,
	}
}

// MarshalJSON 以文件配置形态（毫秒整数）输出。
func (c Config) MarshalJSON() ([]byte, error) {
	return json.Marshal(toFileConfig(c))
}

// LoadConfig 从 xconf 读取连接池配置，缺失的键取默认值。
//
// 键名与环境变量去掉 DB_POOL_ 前缀后的小写形式一致（min_connections、
// connection_timeout 等），时长单位为毫秒。
func LoadConfig(c xconf.Config) (Config, error) {
	raw := toFileConfig(DefaultConfig())
	if c != nil {
		if err := c.Unmarshal("", &raw); err != nil {
			return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}
	cfg := raw.config()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfigFromEnv 从 DB_POOL_* 环境变量读取连接池配置。
func LoadConfigFromEnv() (Config, error) {
	c, err := xconf.NewFromEnv(EnvPrefix)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return LoadConfig(c)
}
