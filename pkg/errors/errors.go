package errors

import (
	"errors"
	"fmt"
)

// AppError 自定义应用错误
// 设计说明：
// 1. Code用于客户端判断错误类型（不要直接暴露HTTP状态码）
// 2. Message是用户友好的提示信息
// 3. Err是内部错误，仅记录到日志，不返回给客户端
type AppError struct {
	Code    int    `json:"code"`    // 业务错误码
	Message string `json:"message"` // 用户友好的错误提示
	Err     error  `json:"-"`       // 内部错误（不序列化）
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 支持errors.Is和errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is 按错误码比较
// 从HTTP响应还原出来的AppError与领域层的哨兵错误不是同一个指针，
// 按Code比较后 errors.Is(err, book.ErrBookNotFound) 在客户端同样成立
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// New 创建新的AppError
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap 包装系统错误（如数据库错误、网络错误）
func Wrap(err error, message string) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
		Err:     err,
	}
}

// Wrapf 格式化包装错误
func Wrapf(err error, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// WithDetail 基于已有错误码生成一条带详细说明的新错误
// 用于参数校验：ErrInvalidParams.WithDetail("email格式不正确")
func (e *AppError) WithDetail(detail string) *AppError {
	return &AppError{
		Code:    e.Code,
		Message: e.Message + ": " + detail,
		Err:     e.Err,
	}
}

// =========================================
// 错误码定义
// =========================================
// 规范：
// - 4xxxx: 客户端错误（参数错误、业务规则校验失败）
// - 5xxxx: 服务端错误（数据库异常、外部服务调用失败）

const (
	// 系统级错误码（50000-50099）
	ErrCodeInternal              = 50000 // 内部错误
	ErrCodeDatabaseError         = 50001 // 数据库错误
	ErrCodeTransport             = 50003 // 调用API失败（网络不可用、超时、响应无法解析）
	ErrCodeInventoryInconsistent = 50004 // 库存数据不一致（可借数量超过总数）

	// 资源错误（40400-40499）
	ErrCodeBookNotFound        = 40402 // 图书不存在
	ErrCodeMemberNotFound      = 40405 // 会员不存在
	ErrCodeTransactionNotFound = 40406 // 借阅记录不存在

	// 业务规则错误（40000-40099）
	ErrCodeNoCopiesAvailable = 40001 // 没有可借副本
	ErrCodeMemberInactive    = 40006 // 会员未激活
	ErrCodeAlreadyReturned   = 40007 // 已归还
	ErrCodeHasActiveLoans    = 40008 // 存在未归还的借阅
	ErrCodeDuplicateEntry    = 40009 // 重复记录(通用)

	// 参数错误（40900-40999）
	ErrCodeInvalidParams = 40900 // 参数错误
	ErrCodeBindError     = 40901 // 参数绑定失败
)

// =========================================
// 预定义错误（避免每次都New）
// =========================================

var (
	// 系统错误
	ErrInternal      = New(ErrCodeInternal, "系统内部错误")
	ErrDatabaseError = New(ErrCodeDatabaseError, "数据库错误")
	ErrTransport     = New(ErrCodeTransport, "服务暂不可用")

	// 参数错误
	ErrInvalidParams = New(ErrCodeInvalidParams, "参数错误")
	ErrBindError     = New(ErrCodeBindError, "参数格式错误")
)

// =========================================
// 辅助函数
// =========================================

// IsAppError 判断是否为AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError 提取AppError（如果不是AppError则包装成Internal错误）
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, "系统内部错误")
}

// NewTransportError 包装调用API时的底层错误
func NewTransportError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeTransport,
		Message: ErrTransport.Message,
		Err:     err,
	}
}

// IsTransportError 判断是否为传输层错误（触发本地数据降级）
func IsTransportError(err error) bool {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return false
	}
	return appErr.Code == ErrCodeTransport
}
