// Package redisconn 提供 Redis 的 xdbpool.Factory 实现，句柄类型为 *redis.Client。
//
// go-redis 自带连接池；这里每个句柄只持有一条连接，并关闭 go-redis 的命令重试，
// 连接数、探活与重建都交给 xdbpool 管理。
package redisconn
