package pizza

import (
	"errors"

	"pizzeria/domain/shared"
)

var (
	ErrPizzaNotFound          = errors.New("pizza not found")
	ErrInvalidPizza           = errors.New("invalid pizza")
	ErrInvalidPrice           = errors.New("price must be positive")
	ErrConcurrentModification = errors.New("pizza was modified by another transaction")
)

func NewPizzaNotFoundError(pizzaID string) error {
	return &pizzaDomainError{
		sentinel: ErrPizzaNotFound,
		kind:     shared.ErrNotFound,
		message:  "pizza not found: " + pizzaID,
		stack:    shared.CaptureStack(3),
	}
}

func NewInvalidPriceError(price shared.Money) error {
	return &pizzaDomainError{
		sentinel: ErrInvalidPrice,
		kind:     shared.ErrInvalidInput,
		field:    "price",
		message:  "price must be positive, got " + price.String(),
		stack:    shared.CaptureStack(3),
	}
}

func NewValidationError(field, message string) error {
	return &pizzaDomainError{
		sentinel: ErrInvalidPizza,
		kind:     shared.ErrInvalidInput,
		field:    field,
		message:  message,
		stack:    shared.CaptureStack(3),
	}
}

func NewConcurrentModificationError(pizzaID string) error {
	return &pizzaDomainError{
		sentinel: ErrConcurrentModification,
		kind:     shared.ErrConflict,
		message:  "pizza " + pizzaID + " was modified by another transaction",
		stack:    shared.CaptureStack(3),
	}
}

type pizzaDomainError struct {
	sentinel error
	kind     error
	field    string
	message  string
	stack    []uintptr
}

func (e *pizzaDomainError) Error() string   { return e.message }
func (e *pizzaDomainError) Unwrap() []error { return []error{e.sentinel, e.kind} }
func (e *pizzaDomainError) Field() string   { return e.field }
func (e *pizzaDomainError) Stack() []string { return shared.FormatStack(e.stack) }
