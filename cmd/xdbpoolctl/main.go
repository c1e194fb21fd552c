// xdbpoolctl 是 xdbpool 连接池的命令行工具，用于核对配置、探测后端与压测连接池。
//
// 用法:
//
//	xdbpoolctl [全局选项] <命令> [命令参数]
//
// 全局选项:
//
//	-c, --config      配置文件路径（YAML/JSON），缺省时只读环境变量
//	    --env-prefix  环境变量前缀 (默认: DB_POOL_)
//	-b, --backend     后端类型: postgres|redis|mongo|clickhouse (默认: postgres)
//	    --dsn         后端连接串，也可通过 XDBPOOL_DSN 设置
//	    --log-level   日志级别 (默认: info)
//	    --log-format  日志格式 text|json (默认: text)
//	    --log-file    日志文件路径，设置后按大小轮转
//
// 命令:
//
//	config         打印解析后的连接池配置（JSON，时长单位为毫秒）
//	probe          建立连接池，执行一次存活查询并打印统计
//	bench          并发执行存活查询，打印统计与最慢的查询
//
// 退出码:
//
//	0: 成功
//	1: 执行失败
//	2: 参数或配置错误
//	130: 被 SIGINT/SIGTERM 中断
//
// 示例:
//
//	xdbpoolctl config
//	xdbpoolctl --dsn "postgresql://app:pw@db/app?sslmode=require" probe
//	DB_POOL_MAX_CONNECTIONS=8 xdbpoolctl -b redis --dsn redis://localhost:6379 bench -w 16 -n 1000
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/omeyang/xdbpool/pkg/storage/xdbpool"
)

// 版本信息（可通过 -ldflags 注入，例如:
//
//	go build -ldflags "-X main.Version=1.0.0 -X main.GitCommit=$(git rev-parse --short HEAD) -X main.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// ）。
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

func main() {
	os.Exit(run(context.Background(), os.Args, os.Stdout, os.Stderr))
}

// createApp 创建 CLI 应用。
func createApp(stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "xdbpoolctl",
		Writer:    stdout,
		ErrWriter: stderr,
		Usage:     "xdbpool 连接池命令行工具",
		Version:   fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildTime),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    flagConfig,
				Aliases: []string{"c"},
				Usage:   "配置文件路径（YAML/JSON）",
			},
			&cli.StringFlag{
				Name:  flagEnvPrefix,
				Usage: "环境变量前缀",
				Value: xdbpool.EnvPrefix,
			},
			&cli.StringFlag{
				Name:    flagBackend,
				Aliases: []string{"b"},
				Usage:   "后端类型: postgres|redis|mongo|clickhouse",
				Value:   backendPostgres,
			},
			&cli.StringFlag{
				Name:    flagDSN,
				Usage:   "后端连接串",
				Sources: cli.EnvVars("XDBPOOL_DSN"),
			},
			&cli.BoolFlag{
				Name:  flagInsecure,
				Usage: "允许 PostgreSQL 明文连接（仅限本地开发）",
			},
			&cli.StringFlag{
				Name:  flagLogLevel,
				Usage: "日志级别: debug|info|warn|error",
				Value: "info",
			},
			&cli.StringFlag{
				Name:  flagLogFormat,
				Usage: "日志格式: text|json",
				Value: "text",
			},
			&cli.StringFlag{
				Name:  flagLogFile,
				Usage: "日志文件路径（按大小轮转）",
			},
		},
		Commands: createCommands(),
		// 设计决策: 禁止 urfave/cli 直接调用 os.Exit，由 run() 统一映射退出码。
		ExitErrHandler: func(_ context.Context, _ *cli.Command, err error) {
			if _, ok := err.(cli.ExitCoder); ok {
				fmt.Fprintln(stderr, err)
			}
		},
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	app := createApp(stdout, stderr)

	if err := app.Run(ctx, args); err != nil {
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			return exitErr.code
		}
		var usageErr *usageError
		if errors.As(err, &usageErr) {
			fmt.Fprintf(stderr, "参数错误: %v\n", usageErr)
			return 2
		}
		if errors.Is(err, xdbpool.ErrInvalidConfig) {
			fmt.Fprintf(stderr, "配置错误: %v\n", err)
			return 2
		}
		fmt.Fprintf(stderr, "错误: %v\n", err)
		return 1
	}
	return 0
}
