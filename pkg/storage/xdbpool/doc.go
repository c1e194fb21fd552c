// Package xdbpool 提供后端无关的数据库连接池与托管查询执行。
//
// 连接池通过 Factory 创建、探活、关闭后端句柄，自身只负责：
//   - 容量管理：维持 MinConnections 个连接，上限 MaxConnections
//   - 获取与归还：Acquire 优先复用空闲连接，满载时按 FIFO 排队等待
//   - 健康检查：周期性探活空闲连接、淘汰长期空闲连接并补齐
//   - 优雅关闭：Shutdown 等待在用连接归还后关闭全部连接
//
// # 托管执行
//
// Execute 和 WithPooledConnection 封装"获取 → 执行 → 归还"，
// 并记录查询耗时、行数与慢查询：
//
//	users, err := xdbpool.Execute(ctx, pool, "list_users",
//	    func(ctx context.Context, c *pgx.Conn) ([]User, error) {
//	        return queryUsers(ctx, c)
//	    })
//
// # 健康状态
//
// 每轮健康检查按探活失败数占本轮开始时连接总数的比例计算 Status：
// 超过 20% 为 degraded，超过 50% 为 critical。
//
// # 配置
//
// Config 可由 LoadConfig 从 xconf 配置源加载，或由 LoadConfigFromEnv
// 从 DB_POOL_ 前缀的环境变量加载，时间字段以毫秒为单位。
//
// # 后端
//
// 子包 pgxconn、redisconn、mongoconn、clickhouseconn 提供常见后端的 Factory 实现。
package xdbpool
