package errors

import (
	"errors"
)

// Kind 错误分类标签（对外稳定，不随实现变化）
type Kind string

const (
	KindValidation Kind = "validation_error" // 输入缺失或格式错误，调用方问题，不自动重试
	KindNotFound   Kind = "not_found"        // 引用的实体不存在
	KindConflict   Kind = "conflict"         // 重复完成、唯一键冲突
	KindIntegrity  Kind = "integrity_error"  // 内部数据不一致（如未知班次）
	KindStore      Kind = "store_error"      // 底层存储失败
)

var kindDescriptions = map[Kind]string{
	KindValidation: "请求参数校验失败",
	KindNotFound:   "资源不存在",
	KindConflict:   "数据冲突",
	KindIntegrity:  "数据完整性异常",
	KindStore:      "服务器内部错误",
}

// Description 返回分类的对外描述
func (k Kind) Description() string {
	if d, ok := kindDescriptions[k]; ok {
		return d
	}
	return kindDescriptions[KindStore]
}

// Error 带分类标签的业务错误。
// 各 Service 以包级变量声明哨兵错误，经 Wrap 附带底层原因后仍可用 errors.Is 匹配。
type Error struct {
	Kind    Kind
	Code    string
	Message string
	cause   error
}

// New 创建分类错误
func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// Is Kind 与 Code 相同即视为同一错误
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Code == e.Code
}

// Wrap 返回附带底层原因的副本，不修改哨兵本身
func (e *Error) Wrap(cause error) *Error {
	c := *e
	c.cause = cause
	return &c
}

// As 提取链上的第一个分类错误
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf 返回错误分类；未分类的错误一律视为存储错误
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return KindStore
}

// ── 通用哨兵 ──

// ErrStore 底层存储失败（具体信息不对外暴露）
var ErrStore = New(KindStore, "StoreError", "数据存储异常")

// ErrOptimisticLock 乐观锁冲突：记录已被其他操作修改
var ErrOptimisticLock = New(KindConflict, "OptimisticLock", "数据已被其他操作修改，请刷新后重试")

// Store 将未分类的底层错误归为 store_error；已分类错误原样返回
func Store(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := As(err); ok {
		return err
	}
	return ErrStore.Wrap(err)
}
