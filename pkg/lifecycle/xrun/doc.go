// Package xrun 提供基于 errgroup 的 goroutine 生命周期管理。
//
// xdbpool 用 [Ticker] 驱动周期健康检查，xdbpoolctl 用 [Run] 在收到
// SIGINT/SIGTERM 时停止压测并关闭连接池。
//
// 信号退出时 [Run] 返回 *[SignalError]，可用 errors.Is(err, ErrSignal) 判断。
package xrun
