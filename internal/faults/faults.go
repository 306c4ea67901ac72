// Package faults 定义批处理链路的错误分类：配置错误、暂时性存储错误、
// 单条记录校验错误、算术溢出与下游副作用错误，以及统一的分类函数。
package faults

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/jackc/pgx/v5/pgconn"
)

// 错误原因，写入 checkpoint / batch_run 的 error_class 列。
const (
	ReasonConfiguration      = "CONFIGURATION"
	ReasonTransientStorage   = "TRANSIENT_STORAGE"
	ReasonValidation         = "VALIDATION"
	ReasonArithmeticOverflow = "ARITHMETIC_OVERFLOW"
	ReasonDownstream         = "DOWNSTREAM"
	ReasonUnknown            = "UNKNOWN"
)

// Class 是容错策略使用的错误类别。
type Class int

const (
	// ClassFatal 立即失败分区，不重试、不跳过。
	ClassFatal Class = iota
	// ClassTransient 整块重放，有上限并指数退避。
	ClassTransient
	// ClassSkippable 丢弃单条记录，累计跳过数有上限。
	ClassSkippable
	// ClassNoRollback 已产生的副作用保留，提交当前块并计数。
	ClassNoRollback
)

func (c Class) String() string {
	switch c {
	case ClassFatal:
		return "fatal"
	case ClassTransient:
		return "transient"
	case ClassSkippable:
		return "skippable"
	case ClassNoRollback:
		return "no_rollback"
	default:
		return "unknown"
	}
}

// Postgres SQLSTATE，视为锁/死锁类暂时性错误。
const (
	sqlStateDeadlock             = "40P01"
	sqlStateSerializationFailure = "40001"
	sqlStateLockNotAvailable     = "55P03"
)

var (
	// ErrConfiguration 匹配任意配置错误。
	ErrConfiguration = errors.New(500, ReasonConfiguration, "configuration error")
	// ErrTransientStorage 匹配任意暂时性存储错误。
	ErrTransientStorage = errors.New(503, ReasonTransientStorage, "transient storage error")
	// ErrValidation 匹配任意记录校验错误。
	ErrValidation = errors.New(422, ReasonValidation, "validation error")
	// ErrArithmeticOverflow 匹配任意算术溢出。
	ErrArithmeticOverflow = errors.New(500, ReasonArithmeticOverflow, "arithmetic overflow")
	// ErrDownstream 匹配任意下游副作用错误。
	ErrDownstream = errors.New(502, ReasonDownstream, "downstream error")
)

// Configuration 构造配置错误（缺失费率、非法日期等），致命。
func Configuration(format string, args ...any) *errors.Error {
	return errors.Newf(500, ReasonConfiguration, format, args...)
}

// Validation 构造单条记录校验错误。
func Validation(format string, args ...any) *errors.Error {
	return errors.Newf(422, ReasonValidation, format, args...)
}

// Overflow 构造算术溢出错误。
func Overflow(format string, args ...any) *errors.Error {
	return errors.Newf(500, ReasonArithmeticOverflow, format, args...)
}

// Transient 把底层存储错误包装为暂时性错误。
func Transient(cause error) *errors.Error {
	return errors.New(503, ReasonTransientStorage, cause.Error()).WithCause(cause)
}

// Downstream 把下游调用失败包装为 no-rollback 错误。
func Downstream(op string, cause error) *errors.Error {
	return errors.Newf(502, ReasonDownstream, "%s: %v", op, cause).WithCause(cause)
}

// Reason 返回错误原因；无法识别时返回 UNKNOWN，nil 返回空串。
func Reason(err error) string {
	if err == nil {
		return ""
	}
	if r := errors.Reason(err); r != "" {
		return r
	}
	if isTransientStorage(err) {
		return ReasonTransientStorage
	}
	return ReasonUnknown
}

// Classify 将错误映射到容错类别。
func Classify(err error) Class {
	if err == nil {
		return ClassFatal
	}
	switch errors.Reason(err) {
	case ReasonTransientStorage:
		return ClassTransient
	case ReasonValidation:
		return ClassSkippable
	case ReasonDownstream:
		return ClassNoRollback
	case ReasonConfiguration, ReasonArithmeticOverflow:
		return ClassFatal
	}
	if isTransientStorage(err) {
		return ClassTransient
	}
	return ClassFatal
}

// IsTransient 判断是否为可重放的暂时性错误。
func IsTransient(err error) bool {
	return err != nil && Classify(err) == ClassTransient
}

func isTransientStorage(err error) bool {
	var pgErr *pgconn.PgError
	if stderrors.As(err, &pgErr) {
		switch pgErr.Code {
		case sqlStateDeadlock, sqlStateSerializationFailure, sqlStateLockNotAvailable:
			return true
		}
		return false
	}
	if pgconn.Timeout(err) {
		return !stderrors.Is(err, context.Canceled)
	}
	var netErr net.Error
	if stderrors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return false
}

// Describe 生成 "REASON: message" 形式的简述，写入运行报告。
func Describe(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("%s: %v", Reason(err), err)
}
