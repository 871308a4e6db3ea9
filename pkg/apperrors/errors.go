// Package apperrors 定义业务错误分类，每个操作返回带标签的错误，
// 只在 HTTP 边界翻译成状态码
package apperrors

import (
	"errors"
	"fmt"
)

// Kind 业务错误类别
type Kind int

const (
	// KindUnexpected 未分类错误，对外只返回通用消息
	KindUnexpected Kind = iota
	// KindAuthFailed 凭证错误或令牌无效
	KindAuthFailed
	// KindUnauthorized 缺少所需能力
	KindUnauthorized
	// KindNotFound 目标资源不存在
	KindNotFound
	// KindValidation 字段校验失败，携带字段级明细
	KindValidation
	// KindOutOfStock 商品库存为零
	KindOutOfStock
	// KindInsufficientStock 请求数量超过当前库存
	KindInsufficientStock
	// KindConflict 并发修改冲突
	KindConflict
	// KindStorage 存储后端暂时不可用
	KindStorage
)

func (k Kind) String() string {
	switch k {
	case KindAuthFailed:
		return "auth_failed"
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation_failed"
	case KindOutOfStock:
		return "out_of_stock"
	case KindInsufficientStock:
		return "insufficient_stock"
	case KindConflict:
		return "conflict"
	case KindStorage:
		return "storage_unavailable"
	default:
		return "unexpected"
	}
}

// Error 带类别的业务错误
type Error struct {
	Kind    Kind
	Message string
	// Fields 字段级校验明细，仅 KindValidation 使用
	Fields map[string][]string
	cause  error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New 创建业务错误
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf 创建带格式化消息的业务错误
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap 包装底层错误
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}

// WithFields 创建校验错误，附带字段明细
func WithFields(message string, fields map[string][]string) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

// KindOf 提取错误类别，非业务错误归为 KindUnexpected
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnexpected
}

// IsKind 判断错误是否属于指定类别
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
