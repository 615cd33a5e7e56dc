/*
Package customer 定义顾客领域错误。
*/
package customer

import (
	"errors"
	"fmt"

	"pizzeria/domain/shared"
)

var (
	ErrCustomerNotFound       = errors.New("customer not found")
	ErrInvalidEmail           = errors.New("invalid email format")
	ErrInvalidCustomer        = errors.New("invalid customer")
	ErrEmailAlreadyExists     = errors.New("email already exists")
	ErrCustomerHasOrders      = errors.New("customer has orders")
	ErrConcurrentModification = errors.New("customer was modified by another transaction")
)

func NewCustomerNotFoundError(customerID string) error {
	return &customerDomainError{
		sentinel: ErrCustomerNotFound,
		kind:     shared.ErrNotFound,
		message:  "customer not found: " + customerID,
		stack:    shared.CaptureStack(3),
	}
}

func NewCustomerNotFoundByEmailError(email string) error {
	return &customerDomainError{
		sentinel: ErrCustomerNotFound,
		kind:     shared.ErrNotFound,
		field:    "email",
		message:  "customer not found with email: " + email,
		stack:    shared.CaptureStack(3),
	}
}

func NewConcurrentModificationError(customerID string) error {
	return &customerDomainError{
		sentinel: ErrConcurrentModification,
		kind:     shared.ErrConflict,
		message:  "customer " + customerID + " was modified by another transaction",
		stack:    shared.CaptureStack(3),
	}
}

func NewInvalidEmailError(email string) error {
	return &customerDomainError{
		sentinel: ErrInvalidEmail,
		kind:     shared.ErrInvalidInput,
		field:    "email",
		message:  "invalid email format: " + email,
		stack:    shared.CaptureStack(3),
	}
}

func NewValidationError(field, message string) error {
	return &customerDomainError{
		sentinel: ErrInvalidCustomer,
		kind:     shared.ErrInvalidInput,
		field:    field,
		message:  message,
		stack:    shared.CaptureStack(3),
	}
}

func NewEmailAlreadyExistsError(email string) error {
	return &customerDomainError{
		sentinel: ErrEmailAlreadyExists,
		kind:     shared.ErrConflict,
		field:    "email",
		message:  "email already in use: " + email,
		stack:    shared.CaptureStack(3),
	}
}

func NewCustomerHasOrdersError(customerID string, count int64) error {
	return &customerDomainError{
		sentinel: ErrCustomerHasOrders,
		kind:     shared.ErrConflict,
		message:  fmt.Sprintf("customer %s still has %d order(s)", customerID, count),
		stack:    shared.CaptureStack(3),
	}
}

type customerDomainError struct {
	sentinel error
	kind     error
	field    string
	message  string
	stack    []uintptr
}

func (e *customerDomainError) Error() string   { return e.message }
func (e *customerDomainError) Unwrap() []error { return []error{e.sentinel, e.kind} }
func (e *customerDomainError) Field() string   { return e.field }
func (e *customerDomainError) Stack() []string { return shared.FormatStack(e.stack) }
