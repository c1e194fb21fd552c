// Package mongoconn 提供 MongoDB 的 xdbpool.Factory 实现，句柄类型为 *mongo.Client。
package mongoconn
