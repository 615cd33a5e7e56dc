package memory

import (
	"context"
	"time"

	"pizzeria/domain/order"
	"pizzeria/domain/shared"
)

// OrderRepository in-memory implementation of order.Repository
type OrderRepository struct {
	store *Store
}

func NewOrderRepository(store *Store) *OrderRepository {
	return &OrderRepository{store: store}
}

func (r *OrderRepository) Save(ctx context.Context, o *order.Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := r.store.lockRow(ctx, tableOrders, o.ID()); err != nil {
		return err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	rec := orderToRecord(o)
	if !o.IsNew() {
		current, ok := r.store.orders[o.ID()]
		if !ok {
			return order.NewOrderNotFoundError(o.ID())
		}
		if current.order.Version != o.Version() {
			return order.NewConcurrentModificationError(o.ID())
		}
		rec.order.Version = o.Version() + 1
	}

	remember(ctx, r.store.orders, o.ID())
	r.store.orders[o.ID()] = rec
	if !o.IsNew() {
		o.IncrementVersionForSave()
	}
	o.ClearNewFlag()
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*order.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	rec, ok := r.store.orders[id]
	if !ok {
		return nil, order.NewOrderNotFoundError(id)
	}
	return rec.toDomain(), nil
}

// FindByIDForUpdate locks the order row until the surrounding unit of work ends.
func (r *OrderRepository) FindByIDForUpdate(ctx context.Context, id string) (*order.Order, error) {
	if err := r.store.lockRow(ctx, tableOrders, id); err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

func (r *OrderRepository) FindAll(ctx context.Context) ([]*order.Order, error) {
	return r.FindBySpecification(ctx, shared.All[*order.Order]{})
}

func (r *OrderRepository) FindByCustomerID(ctx context.Context, customerID string) ([]*order.Order, error) {
	return r.FindBySpecification(ctx, order.NewByCustomerIDSpecification(customerID))
}

func (r *OrderRepository) FindByStatus(ctx context.Context, status order.Status) ([]*order.Order, error) {
	return r.FindBySpecification(ctx, order.NewByStatusSpecification(status))
}

func (r *OrderRepository) FindByCreatedAtRange(ctx context.Context, start, end time.Time) ([]*order.Order, error) {
	return r.FindBySpecification(ctx, order.NewByCreatedAtRangeSpecification(start, end))
}

func (r *OrderRepository) FindBySpecification(ctx context.Context, spec shared.Specification[*order.Order]) ([]*order.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	result := make([]*order.Order, 0)
	for _, rec := range r.store.orders {
		o := rec.toDomain()
		if spec.IsSatisfiedBy(ctx, o) {
			result = append(result, o)
		}
	}
	order.SortByCreatedAt(result)
	return result, nil
}

func (r *OrderRepository) CountByCustomerID(ctx context.Context, customerID string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var count int64
	for _, rec := range r.store.orders {
		if rec.order.CustomerID == customerID {
			count++
		}
	}
	return count, nil
}

func (r *OrderRepository) Delete(ctx context.Context, o *order.Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := r.store.lockRow(ctx, tableOrders, o.ID()); err != nil {
		return err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.orders[o.ID()]; !ok {
		return order.NewOrderNotFoundError(o.ID())
	}
	remember(ctx, r.store.orders, o.ID())
	delete(r.store.orders, o.ID())
	return nil
}

var _ order.Repository = (*OrderRepository)(nil)
