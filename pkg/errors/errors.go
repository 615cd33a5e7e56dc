/*
Package errors 应用错误码与领域错误的分类。

领域层只返回哨兵错误（可能同时携带 shared.ErrInvalidInput 等类别），
这里用 errors.Is/As 把它们归类成对外可见的 ErrorCode。HTTP 状态码映射同样在此维护，
API 层只负责写响应。
*/
package errors

import (
	"errors"
	"fmt"
	"net/http"

	"pizzeria/domain/customer"
	"pizzeria/domain/order"
	"pizzeria/domain/pizza"
	"pizzeria/domain/shared"
)

// ErrorCode 错误码
type ErrorCode string

const (
	// 通用错误码
	CodeInternal       ErrorCode = "INTERNAL_ERROR"
	CodeBadRequest     ErrorCode = "BAD_REQUEST"
	CodeNotFound       ErrorCode = "NOT_FOUND"
	CodeConflict       ErrorCode = "CONFLICT"
	CodeTooManyRequest ErrorCode = "TOO_MANY_REQUESTS"
	CodeValidation     ErrorCode = "VALIDATION_ERROR"

	// 业务错误码
	CodeOrderNotFound      ErrorCode = "ORDER_NOT_FOUND"
	CodeCustomerNotFound   ErrorCode = "CUSTOMER_NOT_FOUND"
	CodePizzaNotFound      ErrorCode = "PIZZA_NOT_FOUND"
	CodeInvalidOrderState  ErrorCode = "INVALID_ORDER_STATE"
	CodeConcurrentModify   ErrorCode = "CONCURRENT_MODIFICATION"
	CodeEmailAlreadyExists ErrorCode = "EMAIL_ALREADY_EXISTS"
	CodeCustomerHasOrders  ErrorCode = "CUSTOMER_HAS_ORDERS"
	CodeCannotModifyOrder  ErrorCode = "ORDER_NOT_MODIFIABLE"
)

var httpStatus = map[ErrorCode]int{
	CodeInternal:       http.StatusInternalServerError,
	CodeBadRequest:     http.StatusBadRequest,
	CodeNotFound:       http.StatusNotFound,
	CodeConflict:       http.StatusConflict,
	CodeTooManyRequest: http.StatusTooManyRequests,
	CodeValidation:     http.StatusBadRequest,

	CodeOrderNotFound:      http.StatusNotFound,
	CodeCustomerNotFound:   http.StatusNotFound,
	CodePizzaNotFound:      http.StatusNotFound,
	CodeInvalidOrderState:  http.StatusConflict,
	CodeConcurrentModify:   http.StatusConflict,
	CodeEmailAlreadyExists: http.StatusConflict,
	CodeCustomerHasOrders:  http.StatusConflict,
	CodeCannotModifyOrder:  http.StatusConflict,
}

// AppError 应用错误
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// HTTPStatusCode 返回对应的HTTP状态码，未知错误码按 500 处理
func (e *AppError) HTTPStatusCode() int {
	if status, ok := httpStatus[e.Code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// New 创建新错误
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Wrap 包装错误
func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func BadRequest(message string) *AppError {
	return New(CodeBadRequest, message)
}

func NotFound(message string) *AppError {
	return New(CodeNotFound, message)
}

func Internal(message string) *AppError {
	return New(CodeInternal, message)
}

func TooManyRequests(message string) *AppError {
	return New(CodeTooManyRequest, message)
}

func Validation(message string) *AppError {
	return New(CodeValidation, message)
}

// Is 检查是否为特定错误码
func Is(err error, code ErrorCode) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// classification 按顺序匹配：具体的哨兵错误在前，通用类别在后。
var classification = []struct {
	target error
	code   ErrorCode
}{
	{order.ErrInvalidTransition, CodeInvalidOrderState},
	{order.ErrConcurrentModification, CodeConcurrentModify},
	{customer.ErrConcurrentModification, CodeConcurrentModify},
	{pizza.ErrConcurrentModification, CodeConcurrentModify},
	{order.ErrCannotModifyNonPendingOrder, CodeCannotModifyOrder},
	{order.ErrOrderNotFound, CodeOrderNotFound},
	{order.ErrItemNotFound, CodeNotFound},
	{customer.ErrCustomerNotFound, CodeCustomerNotFound},
	{pizza.ErrPizzaNotFound, CodePizzaNotFound},
	{customer.ErrEmailAlreadyExists, CodeEmailAlreadyExists},
	{customer.ErrCustomerHasOrders, CodeCustomerHasOrders},
	{shared.ErrInvalidInput, CodeValidation},
	{shared.ErrNotFound, CodeNotFound},
	{shared.ErrConflict, CodeConflict},
}

// FromDomainError 将领域错误映射为应用错误。无法识别的错误一律视为内部错误。
func FromDomainError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	for _, c := range classification {
		if errors.Is(err, c.target) {
			return Wrap(err, c.code, err.Error())
		}
	}
	return Wrap(err, CodeInternal, "internal server error")
}
