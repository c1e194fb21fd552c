// Package xpool 提供通用的 worker pool 实现。
//
// Pool 是一个轻量级的泛型 worker pool，xdbpool 用它异步执行慢查询钩子，
// 使告警、上报等耗时逻辑不占用请求路径。
//
// 特性：
//   - 泛型任务类型
//   - worker 数量 [1, 65536]，队列大小 [1, 16777216]，超出范围返回错误
//   - Submit 永不阻塞，队列满时返回 ErrQueueFull
//   - Shutdown(ctx) 支持超时，Done() 可等待残留 worker 最终退出
//   - panic 恢复，只记录 task 类型，不记录 task 值
//
// 注意：Close/Shutdown 不可在 handler 内调用，否则会死锁。
package xpool
