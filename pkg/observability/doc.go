// Package observability 提供可观测性相关的子包。
//
// 子包列表：
//   - xlog: 结构化日志，基于 log/slog 扩展，支持文件轮转
//   - xmetrics: 统一可观测性接口（追踪与操作计数）
//
// 设计原则：
//   - 遵循 OpenTelemetry 语义规范
//   - 日志属性键保持稳定，便于检索
package observability
