package xretry

import "errors"

// RetryableError 由错误自身声明是否值得重试。
// 驱动错误实现此接口即可覆盖默认分类。
type RetryableError interface {
	error
	Retryable() bool
}

// classifiedError 为已有错误附加重试分类，Error/Unwrap 透传原错误。
type classifiedError struct {
	err       error
	retryable bool
}

func (e *classifiedError) Error() string   { return e.err.Error() }
func (e *classifiedError) Unwrap() error   { return e.err }
func (e *classifiedError) Retryable() bool { return e.retryable }

// Permanent 标记 err 不可重试，例如认证失败或目标库不存在。nil 原样返回。
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &classifiedError{err: err, retryable: false}
}

// Temporary 标记 err 可重试，可覆盖内层错误的永久性分类。nil 原样返回。
func Temporary(err error) error {
	if err == nil {
		return nil
	}
	return &classifiedError{err: err, retryable: true}
}

// IsRetryable 报告 err 是否值得重试。
//
// nil 不需要重试；错误链上最外层的 RetryableError 决定结果；
// 未分类的错误（连接被拒、超时等）视为可重试。
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var re RetryableError
	if errors.As(err, &re) {
		return re.Retryable()
	}
	return true
}

// IsPermanent 报告 err 是否被分类为不可重试。
func IsPermanent(err error) bool {
	return err != nil && !IsRetryable(err)
}
