// Package xlog 基于 log/slog 的结构化日志库。
//
// # 创建 Logger
//
// 使用 Builder 模式，遇到第一个配置错误后 Build 返回该错误：
//
//	logger, cleanup, err := xlog.New().
//		SetLevelString("debug").
//		SetFormat("json").
//		SetRotation("/var/log/xdbpool.log", xlog.RotationConfig{MaxSizeMB: 100}).
//		Build()
//	if err != nil {
//		return err
//	}
//	defer cleanup()
//
// [Builder.SetReplaceAttr] 用于脱敏等治理场景，xlog 不内置敏感字段名单。
//
// # 全局 Logger
//
// [Default]、[SetDefault]、[ResetDefault] 以及 [Debug]、[Info]、[Warn]、[Error]
// 适用于 CLI 等简单场景，库代码通过 Option 注入 Logger。
//
// # 派生 Logger 与级别控制
//
// [Logger.With] 和 [Logger.WithGroup] 返回 [Logger] 接口，派生 logger
// 共享父级的 LevelVar，动态级别变更同步生效。
//
// # 与标准库互通
//
// [ToSlog] 把 Logger 转为 *slog.Logger，供 xrun、xpool 这类只接受标准库 logger 的组件使用。
package xlog
