package customer

import (
	"context"

	"pizzeria/domain/shared"
)

// Repository Customer repository interface
type Repository interface {
	// Save creates or updates the customer. A duplicate email yields ErrEmailAlreadyExists.
	Save(ctx context.Context, c *Customer) error

	// FindByID returns ErrCustomerNotFound when absent.
	FindByID(ctx context.Context, id string) (*Customer, error)

	// FindByEmail returns ErrCustomerNotFound when absent. The email is normalized first.
	FindByEmail(ctx context.Context, email string) (*Customer, error)

	// FindAll returns customers ordered by name.
	FindAll(ctx context.Context) ([]*Customer, error)

	FindBySpecification(ctx context.Context, spec shared.Specification[*Customer]) ([]*Customer, error)

	Delete(ctx context.Context, c *Customer) error
}
