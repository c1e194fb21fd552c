package xdbpool

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrPoolClosed 表示连接池已开始关闭，不再分配连接。
	ErrPoolClosed = errors.New("xdbpool: pool is closed")

	// ErrAcquireTimeout 表示在 AcquireTimeout 内没有可用连接。
	ErrAcquireTimeout = errors.New("xdbpool: acquire timeout")

	// ErrConnectionCreation 表示工厂创建或探活新连接失败。
	ErrConnectionCreation = errors.New("xdbpool: connection creation failed")

	// ErrDrainTimeout 表示关闭时在 DrainTimeout 内仍有连接未归还。
	ErrDrainTimeout = errors.New("xdbpool: drain timeout")

	// ErrInvalidConfig 表示连接池配置无效。
	ErrInvalidConfig = errors.New("xdbpool: invalid config")

	// ErrNilFactory 表示未提供连接工厂。
	ErrNilFactory = errors.New("xdbpool: nil factory")

	// ErrNilOperation 表示 Execute 的 op 为 nil。
	ErrNilOperation = errors.New("xdbpool: nil operation")
)

// AcquireTimeoutError 表示等待空闲连接超时。
// 可用 errors.Is(err, ErrAcquireTimeout) 判断。
type AcquireTimeoutError struct {
	Timeout time.Duration
}

func (e *AcquireTimeoutError) Error() string {
	return fmt.Sprintf("xdbpool: no connection available within %s", e.Timeout)
}

// Is 支持 errors.Is(err, ErrAcquireTimeout)。
func (e *AcquireTimeoutError) Is(target error) bool {
	return target == ErrAcquireTimeout
}

// ConnectionCreationError 表示新连接在准入阶段失败（工厂创建或探活）。
// Cause 是重试耗尽后的最后一个错误。
type ConnectionCreationError struct {
	Cause error
}

func (e *ConnectionCreationError) Error() string {
	if e.Cause == nil {
		return ErrConnectionCreation.Error()
	}
	return ErrConnectionCreation.Error() + ": " + e.Cause.Error()
}

func (e *ConnectionCreationError) Unwrap() error {
	return e.Cause
}

// Is 支持 errors.Is(err, ErrConnectionCreation)。
func (e *ConnectionCreationError) Is(target error) bool {
	return target == ErrConnectionCreation
}

// IsUnavailable 判断错误是否为连接获取失败（超时、已关闭、创建失败）。
// API 层应将其映射为可重试的"服务暂不可用"响应，而非硬失败。
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrAcquireTimeout) ||
		errors.Is(err, ErrPoolClosed) ||
		errors.Is(err, ErrConnectionCreation)
}

// SafeError 携带可安全写入日志的错误信息，原始错误通过 Unwrap 获取。
//
// 后端驱动的连接错误可能包含 DSN 或密码，工厂实现用 SafeError 包装它们，
// Error() 只返回 Msg。
type SafeError struct {
	Msg   string
	Cause error
}

// NewSafeError 创建 SafeError。
func NewSafeError(msg string, cause error) *SafeError {
	return &SafeError{Msg: msg, Cause: cause}
}

func (e *SafeError) Error() string { return e.Msg }

func (e *SafeError) Unwrap() error { return e.Cause }
