package apperrors

import "errors"

// Kind 业务错误分类，Handler 层据此映射 HTTP 状态码
type Kind int

const (
	KindUnknown    Kind = iota
	KindValidation      // 输入无效，修正后可重试
	KindNotFound        // 目标不存在
	KindConflict        // 状态冲突（非法状态迁移等）
)

// Error 携带分类的业务错误
type Error struct {
	kind Kind
	err  error
}

func (e *Error) Error() string { return e.err.Error() }
func (e *Error) Unwrap() error { return e.err }
func (e *Error) Kind() Kind    { return e.kind }

// Validation 构造输入校验错误
func Validation(msg string) error { return &Error{kind: KindValidation, err: errors.New(msg)} }

// NotFound 构造不存在错误
func NotFound(msg string) error { return &Error{kind: KindNotFound, err: errors.New(msg)} }

// Conflict 构造状态冲突错误
func Conflict(msg string) error { return &Error{kind: KindConflict, err: errors.New(msg)} }

// KindOf 提取错误分类，非业务错误返回 KindUnknown
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind()
	}
	return KindUnknown
}
