package pizza

import "context"

// Repository Pizza catalog repository interface
type Repository interface {
	Save(ctx context.Context, p *Pizza) error

	// FindByID returns ErrPizzaNotFound when absent.
	FindByID(ctx context.Context, id string) (*Pizza, error)

	// FindAvailable returns available pizzas ordered by name.
	FindAvailable(ctx context.Context) ([]*Pizza, error)

	// SearchByName matches a case-insensitive substring of the name, ordered by name.
	SearchByName(ctx context.Context, name string) ([]*Pizza, error)

	Delete(ctx context.Context, p *Pizza) error
}
