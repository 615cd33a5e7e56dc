package memory

import (
	"context"
	"sort"

	"pizzeria/domain/customer"
	"pizzeria/domain/shared"
)

// CustomerRepository in-memory implementation of customer.Repository
type CustomerRepository struct {
	store *Store
}

func NewCustomerRepository(store *Store) *CustomerRepository {
	return &CustomerRepository{store: store}
}

func (r *CustomerRepository) Save(ctx context.Context, c *customer.Customer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := r.store.lockRow(ctx, tableCustomers, c.ID()); err != nil {
		return err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	rec := customerToRecord(c)
	// 等价于 email 唯一索引
	for id, other := range r.store.customers {
		if id != c.ID() && other.Email == rec.Email {
			return customer.NewEmailAlreadyExistsError(rec.Email)
		}
	}

	if !c.IsNew() {
		current, ok := r.store.customers[c.ID()]
		if !ok {
			return customer.NewCustomerNotFoundError(c.ID())
		}
		if current.Version != c.Version() {
			return customer.NewConcurrentModificationError(c.ID())
		}
		rec.Version = c.Version() + 1
	}

	remember(ctx, r.store.customers, c.ID())
	r.store.customers[c.ID()] = rec
	if !c.IsNew() {
		c.IncrementVersionForSave()
	}
	c.ClearNewFlag()
	return nil
}

func (r *CustomerRepository) FindByID(ctx context.Context, id string) (*customer.Customer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	rec, ok := r.store.customers[id]
	if !ok {
		return nil, customer.NewCustomerNotFoundError(id)
	}
	return customer.RebuildFromDTO(rec), nil
}

func (r *CustomerRepository) FindByEmail(ctx context.Context, email string) (*customer.Customer, error) {
	found, err := r.FindBySpecification(ctx, customer.NewByEmailSpecification(email))
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, customer.NewCustomerNotFoundByEmailError(email)
	}
	return found[0], nil
}

func (r *CustomerRepository) FindAll(ctx context.Context) ([]*customer.Customer, error) {
	return r.FindBySpecification(ctx, shared.All[*customer.Customer]{})
}

func (r *CustomerRepository) FindBySpecification(ctx context.Context, spec shared.Specification[*customer.Customer]) ([]*customer.Customer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	result := make([]*customer.Customer, 0)
	for _, rec := range r.store.customers {
		c := customer.RebuildFromDTO(rec)
		if spec.IsSatisfiedBy(ctx, c) {
			result = append(result, c)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Name() == result[j].Name() {
			return result[i].ID() < result[j].ID()
		}
		return result[i].Name() < result[j].Name()
	})
	return result, nil
}

func (r *CustomerRepository) Delete(ctx context.Context, c *customer.Customer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := r.store.lockRow(ctx, tableCustomers, c.ID()); err != nil {
		return err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.customers[c.ID()]; !ok {
		return customer.NewCustomerNotFoundError(c.ID())
	}
	remember(ctx, r.store.customers, c.ID())
	delete(r.store.customers, c.ID())
	return nil
}

var _ customer.Repository = (*CustomerRepository)(nil)
