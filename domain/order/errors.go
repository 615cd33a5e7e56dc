/*
Package order - 订单领域错误定义

设计原则:
 1. 使用哨兵错误(sentinel errors)支持 errors.Is() 类型安全判断
 2. 每个错误同时归入一个通用分类（shared.ErrInvalidInput / ErrNotFound / ErrConflict），
    API 层只需按分类映射状态码
 3. 错误构造函数在创建时捕获堆栈，便于定位错误发生点
 4. 不包含 HTTP 状态码等非领域概念

堆栈捕获:
- NewXxxError 构造函数内部调用 shared.CaptureStack(3)
- skip=3 跳过：runtime.Callers, CaptureStack, NewXxxError
*/
package order

import (
	"errors"
	"fmt"

	"pizzeria/domain/shared"
)

// ============================================================================
// 订单领域哨兵错误 (Sentinel Errors)
// ============================================================================

var (
	// ErrOrderNotFound 订单未找到
	ErrOrderNotFound = errors.New("order not found")

	// ErrItemNotFound 订单项不存在
	ErrItemNotFound = errors.New("order item not found")

	// ErrConcurrentModification 并发修改冲突（乐观锁）
	ErrConcurrentModification = errors.New("order was modified by another transaction")

	// ErrInvalidTransition 非法的订单状态转换
	ErrInvalidTransition = errors.New("invalid order status transition")

	// ErrEmptyOrderItems 订单项为空
	ErrEmptyOrderItems = errors.New("order must have at least one item")

	// ErrInvalidQuantity 无效的订单项数量
	ErrInvalidQuantity = errors.New("quantity must be positive")

	// ErrInvalidUnitPrice 单价不能为负
	ErrInvalidUnitPrice = errors.New("unit price must not be negative")

	// ErrCannotModifyNonPendingOrder 只有待处理订单可以修改订单项
	ErrCannotModifyNonPendingOrder = errors.New("can only modify pending orders")

	// ErrInvalidOrder 其他字段校验失败
	ErrInvalidOrder = errors.New("invalid order")
)

// ============================================================================
// 订单领域错误构造函数
// ============================================================================

// NewOrderNotFoundError 创建订单未找到错误（带堆栈）
// 返回的错误支持:
//   - errors.Is(err, ErrOrderNotFound)
//   - errors.Is(err, shared.ErrNotFound)
//   - err.(shared.Stacker).Stack() 获取堆栈
func NewOrderNotFoundError(orderID string) error {
	return &orderDomainError{
		sentinel: ErrOrderNotFound,
		kind:     shared.ErrNotFound,
		entity:   "order",
		message:  "order not found: " + orderID,
		stack:    shared.CaptureStack(3),
	}
}

// NewItemNotFoundError 创建订单项未找到错误
func NewItemNotFoundError(orderID, itemID string) error {
	return &orderDomainError{
		sentinel: ErrItemNotFound,
		kind:     shared.ErrNotFound,
		entity:   "order item",
		message:  "order item not found: " + itemID + " (order " + orderID + ")",
		stack:    shared.CaptureStack(3),
	}
}

// NewConcurrentModificationError 创建并发修改错误
func NewConcurrentModificationError(orderID string) error {
	return &orderDomainError{
		sentinel: ErrConcurrentModification,
		kind:     shared.ErrConflict,
		entity:   "order",
		message:  "order " + orderID + " was modified by another transaction",
		stack:    shared.CaptureStack(3),
	}
}

// NewEmptyOrderItemsError 创建订单项为空错误
func NewEmptyOrderItemsError() error {
	return &orderDomainError{
		sentinel: ErrEmptyOrderItems,
		kind:     shared.ErrInvalidInput,
		entity:   "order",
		field:    "items",
		message:  "order must have at least one item",
		stack:    shared.CaptureStack(3),
	}
}

// NewInvalidQuantityError 创建数量非法错误
func NewInvalidQuantityError(quantity int) error {
	return &orderDomainError{
		sentinel: ErrInvalidQuantity,
		kind:     shared.ErrInvalidInput,
		entity:   "order",
		field:    "quantity",
		message:  fmt.Sprintf("quantity must be positive, got: %d", quantity),
		stack:    shared.CaptureStack(3),
	}
}

// NewInvalidUnitPriceError 创建单价非法错误
func NewInvalidUnitPriceError(price shared.Money) error {
	return &orderDomainError{
		sentinel: ErrInvalidUnitPrice,
		kind:     shared.ErrInvalidInput,
		entity:   "order",
		field:    "unit_price",
		message:  "unit price must not be negative, got: " + price.String(),
		stack:    shared.CaptureStack(3),
	}
}

// NewCannotModifyOrderError 创建非待处理订单修改错误
func NewCannotModifyOrderError(orderID string, status Status) error {
	return &orderDomainError{
		sentinel: ErrCannotModifyNonPendingOrder,
		kind:     shared.ErrInvalidInput,
		entity:   "order",
		field:    "items",
		message:  "order " + orderID + " is " + string(status) + "; items can only change while PENDING",
		stack:    shared.CaptureStack(3),
	}
}

// NewLastItemRemovalError 删除最后一个订单项会违反"至少一项"的不变量
func NewLastItemRemovalError(orderID string) error {
	return &orderDomainError{
		sentinel: ErrEmptyOrderItems,
		kind:     shared.ErrInvalidInput,
		entity:   "order",
		field:    "items",
		message:  "cannot remove the last item of order " + orderID,
		stack:    shared.CaptureStack(3),
	}
}

// NewValidationError 创建通用字段校验错误
func NewValidationError(field, message string) error {
	return &orderDomainError{
		sentinel: ErrInvalidOrder,
		kind:     shared.ErrInvalidInput,
		entity:   "order",
		field:    field,
		message:  message,
		stack:    shared.CaptureStack(3),
	}
}

// NewInvalidTransitionError 创建非法状态转换错误，携带当前状态与目标状态
func NewInvalidTransitionError(orderID string, current, target Status, transition Transition) error {
	return &TransitionError{
		OrderID:    orderID,
		Current:    current,
		Target:     target,
		Transition: transition,
		stack:      shared.CaptureStack(3),
	}
}

// ============================================================================
// 错误结构体
// ============================================================================

// TransitionError 非法状态转换错误
// 可通过 errors.As 取出当前状态与目标状态
type TransitionError struct {
	OrderID    string
	Current    Status
	Target     Status
	Transition Transition
	stack      []uintptr
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s order %s: transition from %s to %s is not allowed",
		e.Transition.Label(), e.OrderID, e.Current, e.Target)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// Stack 实现 shared.Stacker 接口
func (e *TransitionError) Stack() []string {
	return shared.FormatStack(e.stack)
}

// orderDomainError 订单领域错误（带堆栈）
type orderDomainError struct {
	sentinel error     // 具体哨兵错误
	kind     error     // 通用分类
	entity   string    // 实体名
	field    string    // 字段名（可选）
	message  string    // 错误消息
	stack    []uintptr // 调用栈
}

func (e *orderDomainError) Error() string {
	return e.message
}

func (e *orderDomainError) Unwrap() []error {
	return []error{e.sentinel, e.kind}
}

// Field 返回出错字段
func (e *orderDomainError) Field() string {
	return e.field
}

// Stack 实现 shared.Stacker 接口
func (e *orderDomainError) Stack() []string {
	if len(e.stack) == 0 {
		return nil
	}

	return shared.FormatStack(e.stack)
}
