package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"sync/atomic"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/omeyang/xdbpool/pkg/config/xconf"
	"github.com/omeyang/xdbpool/pkg/lifecycle/xrun"
	"github.com/omeyang/xdbpool/pkg/observability/xlog"
	"github.com/omeyang/xdbpool/pkg/storage/xdbpool"
)

const (
	flagConfig    = "config"
	flagEnvPrefix = "env-prefix"
	flagBackend   = "backend"
	flagDSN       = "dsn"
	flagInsecure  = "insecure"
	flagLogLevel  = "log-level"
	flagLogFormat = "log-format"
	flagLogFile   = "log-file"
)

// exitError 表示命令已完成输出，只需设置退出码。
type exitError struct {
	code int
}

func (e *exitError) Error() string { return "" }

// usageError 表示参数错误。
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

// errFinished 让一次性命令结束后取消信号监听。
var errFinished = errors.New("finished")

func createCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:   "config",
			Usage:  "打印解析后的连接池配置",
			Action: cmdConfig,
		},
		{
			Name:   "probe",
			Usage:  "建立连接池并执行一次存活查询",
			Action: cmdProbe,
		},
		{
			Name:  "bench",
			Usage: "并发执行存活查询并打印统计",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:    "workers",
					Aliases: []string{"w"},
					Usage:   "并发 worker 数",
					Value:   8,
				},
				&cli.IntFlag{
					Name:    "queries",
					Aliases: []string{"n"},
					Usage:   "每个 worker 执行的查询数",
					Value:   100,
				},
				&cli.IntFlag{
					Name:  "top",
					Usage: "打印最慢的查询条数",
					Value: 5,
				},
			},
			Action: cmdBench,
		},
	}
}

// loadPoolConfig 读取配置文件（可选）并叠加环境变量。
func loadPoolConfig(cmd *cli.Command) (xdbpool.Config, error) {
	prefix := cmd.String(flagEnvPrefix)
	var (
		c   xconf.Config
		err error
	)
	if path := cmd.String(flagConfig); path != "" {
		c, err = xconf.New(path, xconf.WithEnvPrefix(prefix))
	} else {
		c, err = xconf.NewFromEnv(prefix)
	}
	if err != nil {
		return xdbpool.Config{}, fmt.Errorf("%w: %w", xdbpool.ErrInvalidConfig, err)
	}
	return xdbpool.LoadConfig(c)
}

// buildLogger 按全局选项构建日志并设为默认 logger。
func buildLogger(cmd *cli.Command) (xlog.LoggerWithLevel, func() error, error) {
	b := xlog.New().
		SetLevelString(cmd.String(flagLogLevel)).
		SetFormat(cmd.String(flagLogFormat))
	if file := cmd.String(flagLogFile); file != "" {
		b = b.SetRotation(file, xlog.RotationConfig{
			MaxSizeMB:  100,
			MaxBackups: 5,
			MaxAgeDays: 7,
			Compress:   true,
		})
	}
	logger, cleanup, err := b.Build()
	if err != nil {
		return nil, nil, &usageError{msg: err.Error()}
	}
	xlog.SetDefault(logger)
	return logger, cleanup, nil
}

// withPool 打开连接池，在信号监听下执行 fn，结束后关闭连接池。
func withPool(ctx context.Context, cmd *cli.Command, fn func(ctx context.Context, t target) error) (err error) {
	cfg, err := loadPoolConfig(cmd)
	if err != nil {
		return err
	}
	logger, cleanup, err := buildLogger(cmd)
	if err != nil {
		return err
	}
	defer func() {
		_ = cleanup() //nolint:errcheck // 退出前尽力刷盘
	}()

	kind := cmd.String(flagBackend)
	t, err := openTarget(ctx, backendSpec{
		Kind:     kind,
		DSN:      cmd.String(flagDSN),
		Insecure: cmd.Bool(flagInsecure),
	}, cfg, xdbpool.WithLogger(logger.With(xlog.Backend(kind))), xdbpool.WithName(kind))
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.DrainTimeout+time.Second)
		defer cancel()
		if serr := t.Shutdown(shutdownCtx); serr != nil && err == nil {
			err = serr
		}
	}()

	err = xrun.RunWithOptions(ctx, []xrun.Option{
		xrun.WithLogger(xlog.ToSlog(logger)),
		xrun.WithName("xdbpoolctl"),
	}, func(ctx context.Context) error {
		if err := fn(ctx, t); err != nil {
			return err
		}
		return errFinished
	})
	switch {
	case errors.Is(err, errFinished):
		return nil
	case errors.Is(err, xrun.ErrSignal):
		fmt.Fprintln(cmd.Root().ErrWriter, "interrupted")
		return &exitError{code: 130}
	default:
		return err
	}
}

func cmdConfig(_ context.Context, cmd *cli.Command) error {
	cfg, err := loadPoolConfig(cmd)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(cmd.Root().Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(cfg)
}

func cmdProbe(ctx context.Context, cmd *cli.Command) error {
	return withPool(ctx, cmd, func(ctx context.Context, t target) error {
		start := time.Now()
		if err := t.Ping(ctx, "probe"); err != nil {
			return err
		}
		fmt.Fprintf(cmd.Root().Writer, "ok (%s)\n", time.Since(start).Round(time.Microsecond))
		printStats(cmd.Root().Writer, t.Stats())
		return nil
	})
}

func cmdBench(ctx context.Context, cmd *cli.Command) error {
	workers := int(cmd.Int("workers"))
	queries := int(cmd.Int("queries"))
	top := int(cmd.Int("top"))
	if workers <= 0 || queries <= 0 {
		return &usageError{msg: "workers and queries must be positive"}
	}

	return withPool(ctx, cmd, func(ctx context.Context, t target) error {
		var failed atomic.Int64
		var firstErr error
		var once sync.Once

		start := time.Now()
		var wg sync.WaitGroup
		for range workers {
			wg.Go(func() {
				for range queries {
					if ctx.Err() != nil {
						return
					}
					if err := t.Ping(ctx, "bench"); err != nil {
						failed.Add(1)
						once.Do(func() { firstErr = err })
					}
				}
			})
		}
		wg.Wait()
		elapsed := time.Since(start)
		if err := ctx.Err(); err != nil {
			return err
		}

		s := t.Stats()
		total := int64(workers * queries)
		fmt.Fprintf(cmd.Root().Writer, "queries: %d ok, %d failed in %s (%.0f q/s)\n",
			total-failed.Load(), failed.Load(), elapsed.Round(time.Millisecond),
			float64(total)/elapsed.Seconds())
		printStats(cmd.Root().Writer, s)
		printSlowest(cmd.Root().Writer, t.Recorder().Records(), top)

		if firstErr != nil {
			fmt.Fprintf(cmd.Root().ErrWriter, "first error: %v\n", firstErr)
			return &exitError{code: 1}
		}
		return nil
	})
}

func printStats(w io.Writer, s xdbpool.Stats) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "status\t%s\n", s.Status)
	fmt.Fprintf(tw, "connections\ttotal=%d active=%d idle=%d\n", s.TotalConnections, s.ActiveConnections, s.IdleConnections)
	fmt.Fprintf(tw, "queries\ttotal=%d errors=%d slow=%d\n", s.TotalQueries, s.QueryErrors, s.SlowQueries)
	fmt.Fprintf(tw, "avg query time\t%.3fms\n", s.AverageQueryTimeMs())
	fmt.Fprintf(tw, "failed connections\t%d\n", s.FailedConnections)
	_ = tw.Flush() //nolint:errcheck // 输出到终端
}

// printSlowest 按耗时降序打印最慢的 n 条记录。
func printSlowest(w io.Writer, records []xdbpool.QueryRecord, n int) {
	if n <= 0 || len(records) == 0 {
		return
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].ExecutionTime > records[j].ExecutionTime
	})
	if len(records) > n {
		records = records[:n]
	}
	fmt.Fprintln(w, "slowest:")
	for _, r := range records {
		fmt.Fprintf(w, "  %-10s %s\n", r.Name, r.ExecutionTime.Round(time.Microsecond))
	}
}
