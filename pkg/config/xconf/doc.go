// Package xconf 提供统一的配置加载和解析功能，基于 koanf 实现。
//
// xconf 只负责加载与反序列化，默认值与校验由使用方（如 xdbpool.LoadConfig）完成。
//
// # 来源
//
//   - 文件：[New]，按扩展名识别 .yaml/.yml/.json
//   - 字节：[NewFromBytes]，适用于 K8s ConfigMap 等场景
//   - 环境变量：[NewFromEnv]，或通过 [WithEnvPrefix] 叠加在文件/字节之上
//
// 环境变量键去掉前缀后转小写，例如 DB_POOL_MAX_CONNECTIONS 映射为 max_connections。
// 环境变量值是字符串，Unmarshal 使用 koanf 默认的弱类型解码转换为数值字段。
//
// # 并发安全
//
// Client、Unmarshal 与 Reload 可以并发调用，Reload 原子替换底层 koanf 实例。
package xconf
