// Package storageopt 提供 xdbpool 及其后端连接工厂共享的工具函数。
//
// 本包是 internal 包，仅供 pkg/storage 下的子包（xdbpool、pgxconn、redisconn 等）使用。
// 外部用户不应直接导入此包。
//
// 依赖链为：pkg/storage/xdbpool → internal/storageopt → pkg/util/xpool。
//
// 主要功能：
//   - 探活超时 context（HealthContext）
//   - 慢查询检测器（支持同步/异步钩子）
//   - 统计计数器（ProbeCounter、SlowQueryCounter、QueryCounter）
package storageopt
