package errs

import (
	"errors"
	"fmt"
)

// Kind 业务错误类别
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindNotFound
	KindInvalidState
	KindGatewayUnavailable // 网关临时不可用，可重试
	KindGatewayRejected    // 网关明确拒绝，不可重试
	KindUnauthorized
	KindStateConflict
	KindReconciliationFailed
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "VALIDATION"
	case KindNotFound:
		return "NOT_FOUND"
	case KindInvalidState:
		return "INVALID_STATE"
	case KindGatewayUnavailable:
		return "GATEWAY_UNAVAILABLE"
	case KindGatewayRejected:
		return "GATEWAY_REJECTED"
	case KindUnauthorized:
		return "UNAUTHORIZED"
	case KindStateConflict:
		return "STATE_CONFLICT"
	case KindReconciliationFailed:
		return "RECONCILIATION_FAILED"
	case KindInternal:
		return "INTERNAL"
	}
	return "UNKNOWN"
}

// Error 带类别的业务错误
// Message 是可以直接返回给调用方的安全文案，内部细节放在 Err 里
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New 创建业务错误
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf 创建带格式化文案的业务错误
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap 包装底层错误
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf 提取错误类别，非业务错误一律视为 Internal
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// MessageOf 提取对外安全文案
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal server error"
}

// IsKind 判断错误是否属于指定类别
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
