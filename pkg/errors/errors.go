// Package errors 提供统一的错误定义
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode 错误码类型
type ErrorCode string

// 预定义错误码
const (
	// 通用错误 (1xxx)
	CodeSuccess            ErrorCode = "0"
	CodeUnknown            ErrorCode = "1000"
	CodeInvalidParam       ErrorCode = "1001"
	CodeUnauthorized       ErrorCode = "1002"
	CodeForbidden          ErrorCode = "1003"
	CodeNotFound           ErrorCode = "1004"
	CodeConflict           ErrorCode = "1005"
	CodeTooManyRequests    ErrorCode = "1006"
	CodeInternalError      ErrorCode = "1007"
	CodeServiceUnavailable ErrorCode = "1008"

	// 认证授权错误 (2xxx)
	CodeTokenExpired     ErrorCode = "2001"
	CodeTokenInvalid     ErrorCode = "2002"
	CodeTokenMissing     ErrorCode = "2003"
	CodePermissionDenied ErrorCode = "2004"

	// 计费/额度错误 (3xxx)
	CodeQuotaExceeded        ErrorCode = "3001"
	CodeDuplicateTransaction ErrorCode = "3002"
	CodeTxNotFound           ErrorCode = "3003"
	CodeNoQualifyingTransfer ErrorCode = "3004"
	CodeUnsupportedToken     ErrorCode = "3005"
	CodeInvalidAmount        ErrorCode = "3006"
	CodeWalletNotConfigured  ErrorCode = "3007"

	// 对话/模型错误 (4xxx)
	CodeLLMNotConfigured ErrorCode = "4001"
	CodeLLMCallFailed    ErrorCode = "4002"

	// 外部服务错误 (5xxx)
	CodeDatabaseError    ErrorCode = "5001"
	CodeCacheError       ErrorCode = "5002"
	CodeChainUnreachable ErrorCode = "5003"
	CodeLLMProviderError ErrorCode = "5004"
	CodeStorageError     ErrorCode = "5005"
)

// AppError 应用错误
type AppError struct {
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	Detail     string    `json:"detail,omitempty"`
	HTTPStatus int       `json:"-"`
	Err        error     `json:"-"`
}

// Error 实现 error 接口
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap 返回底层错误
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is 按错误码判等，使 errors.Is 能匹配派生（WithDetail/WithError）的副本
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code
}

// WithDetail 添加详细信息
func (e *AppError) WithDetail(detail string) *AppError {
	clone := *e
	clone.Detail = detail
	return &clone
}

// WithError 添加底层错误
func (e *AppError) WithError(err error) *AppError {
	clone := *e
	clone.Err = err
	return &clone
}

// New 创建新的应用错误
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

// Wrap 包装错误
func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Err:        err,
	}
}

// codeToHTTPStatus 错误码转 HTTP 状态码
func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case CodeSuccess:
		return http.StatusOK
	case CodeInvalidParam, CodeLLMNotConfigured, CodeNoQualifyingTransfer, CodeUnsupportedToken, CodeInvalidAmount:
		return http.StatusBadRequest
	case CodeUnauthorized, CodeTokenExpired, CodeTokenInvalid, CodeTokenMissing:
		return http.StatusUnauthorized
	case CodeForbidden, CodePermissionDenied:
		return http.StatusForbidden
	case CodeNotFound, CodeTxNotFound:
		return http.StatusNotFound
	case CodeConflict, CodeDuplicateTransaction:
		return http.StatusConflict
	case CodeTooManyRequests, CodeQuotaExceeded:
		return http.StatusTooManyRequests
	case CodeServiceUnavailable:
		return http.StatusServiceUnavailable
	case CodeChainUnreachable, CodeLLMProviderError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// 预定义错误
var (
	ErrInvalidParam       = New(CodeInvalidParam, "invalid parameter")
	ErrUnauthorized       = New(CodeUnauthorized, "unauthorized")
	ErrForbidden          = New(CodeForbidden, "forbidden")
	ErrNotFound           = New(CodeNotFound, "resource not found")
	ErrConflict           = New(CodeConflict, "resource conflict")
	ErrTooManyRequests    = New(CodeTooManyRequests, "too many requests")
	ErrInternalError      = New(CodeInternalError, "internal server error")
	ErrServiceUnavailable = New(CodeServiceUnavailable, "service unavailable")

	ErrTokenExpired = New(CodeTokenExpired, "token expired")
	ErrTokenInvalid = New(CodeTokenInvalid, "token invalid")
	ErrTokenMissing = New(CodeTokenMissing, "token missing")

	ErrQuotaExceeded        = New(CodeQuotaExceeded, "free requests exhausted and no credit balance")
	ErrDuplicateTransaction = New(CodeDuplicateTransaction, "transaction already processed")
	ErrTxNotFound           = New(CodeTxNotFound, "transaction not found on chain")
	ErrNoQualifyingTransfer = New(CodeNoQualifyingTransfer, "no transfer to app wallet found in transaction")
	ErrUnsupportedToken     = New(CodeUnsupportedToken, "unsupported settlement token")
	ErrInvalidAmount        = New(CodeInvalidAmount, "invalid transfer amount")
	ErrWalletNotConfigured  = New(CodeWalletNotConfigured, "app wallet not configured")

	ErrLLMNotConfigured = New(CodeLLMNotConfigured, "llm provider not configured")
	ErrLLMCallFailed    = New(CodeLLMCallFailed, "LLM call failed")

	ErrChainUnreachable = New(CodeChainUnreachable, "chain endpoint unreachable")
	ErrStorageError     = New(CodeStorageError, "storage operation failed")
)

// IsAppError 检查是否为 AppError（含包装链）
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError 将错误转换为 AppError（含包装链）
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, CodeUnknown, "unknown error")
}

// IsCode 检查错误链上是否携带指定错误码
func IsCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}
