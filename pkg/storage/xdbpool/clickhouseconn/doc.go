// Package clickhouseconn 提供 ClickHouse 的 xdbpool.Factory 实现，句柄类型为 driver.Conn（native 协议）。
package clickhouseconn
