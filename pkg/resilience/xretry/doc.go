// Package xretry 是 avast/retry-go/v5 的薄包装，用于连接创建的重试。
//
// [Do] 与 [DoWithData] 绑定 context 并按错误分类决定是否重试：
//   - [Permanent] 标记的错误（认证失败、数据库不存在）立即返回
//   - [Temporary] 标记的错误与未分类错误按 Attempts/Delay 重试
//
// 驱动错误也可以直接实现 [RetryableError]。
package xretry
