// Package storage 提供数据存储相关的子包。
//
// 子包列表：
//   - xdbpool: 泛型数据库连接池与托管查询执行器
//   - xdbpool/pgxconn: PostgreSQL 连接工厂（pgx）
//   - xdbpool/redisconn: Redis 连接工厂
//   - xdbpool/mongoconn: MongoDB 连接工厂
//   - xdbpool/clickhouseconn: ClickHouse 连接工厂
//
// 设计原则：
//   - 连接池只依赖工厂契约（创建、探活、关闭），不感知具体驱动
//   - 内置可观测性（指标、追踪、慢查询）
//   - 连接凭据不出现在错误信息和日志中
package storage
