package order

import (
	"context"
	"time"

	"pizzeria/domain/shared"
)

// Repository Order repository interface
// DDD principles:
// 1. Repository persists the whole aggregate (order + items) as one unit
// 2. Queries return orders sorted by creation time ascending with items populated
// 3. Include context.Context to support timeout, cancellation and transaction
type Repository interface {
	// Save inserts a new order or performs a version-checked update of an existing one.
	// A stale version yields ErrConcurrentModification.
	Save(ctx context.Context, o *Order) error

	// FindByID returns ErrOrderNotFound when absent.
	FindByID(ctx context.Context, id string) (*Order, error)

	// FindByIDForUpdate loads the order and locks its row until the surrounding
	// transaction ends. Outside a transaction it behaves like FindByID.
	FindByIDForUpdate(ctx context.Context, id string) (*Order, error)

	FindAll(ctx context.Context) ([]*Order, error)
	FindByCustomerID(ctx context.Context, customerID string) ([]*Order, error)
	FindByStatus(ctx context.Context, status Status) ([]*Order, error)

	// FindByCreatedAtRange is inclusive on both ends.
	FindByCreatedAtRange(ctx context.Context, start, end time.Time) ([]*Order, error)

	FindBySpecification(ctx context.Context, spec shared.Specification[*Order]) ([]*Order, error)

	CountByCustomerID(ctx context.Context, customerID string) (int64, error)

	// Delete physically removes the order and all of its items.
	Delete(ctx context.Context, o *Order) error
}
