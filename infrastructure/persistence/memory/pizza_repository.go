package memory

import (
	"context"
	"sort"
	"strings"

	"pizzeria/domain/pizza"
)

// PizzaRepository in-memory implementation of pizza.Repository
type PizzaRepository struct {
	store *Store
}

func NewPizzaRepository(store *Store) *PizzaRepository {
	return &PizzaRepository{store: store}
}

func (r *PizzaRepository) Save(ctx context.Context, p *pizza.Pizza) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := r.store.lockRow(ctx, tablePizzas, p.ID()); err != nil {
		return err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	rec := pizzaToRecord(p)
	if !p.IsNew() {
		current, ok := r.store.pizzas[p.ID()]
		if !ok {
			return pizza.NewPizzaNotFoundError(p.ID())
		}
		if current.Version != p.Version() {
			return pizza.NewConcurrentModificationError(p.ID())
		}
		rec.Version = p.Version() + 1
	}

	remember(ctx, r.store.pizzas, p.ID())
	r.store.pizzas[p.ID()] = rec
	if !p.IsNew() {
		p.IncrementVersionForSave()
	}
	p.ClearNewFlag()
	return nil
}

func (r *PizzaRepository) FindByID(ctx context.Context, id string) (*pizza.Pizza, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	rec, ok := r.store.pizzas[id]
	if !ok {
		return nil, pizza.NewPizzaNotFoundError(id)
	}
	return pizza.RebuildFromDTO(rec), nil
}

func (r *PizzaRepository) FindAvailable(ctx context.Context) ([]*pizza.Pizza, error) {
	return r.filter(ctx, func(rec pizza.ReconstructionDTO) bool { return rec.Available })
}

func (r *PizzaRepository) SearchByName(ctx context.Context, name string) ([]*pizza.Pizza, error) {
	needle := strings.ToLower(strings.TrimSpace(name))
	return r.filter(ctx, func(rec pizza.ReconstructionDTO) bool {
		return strings.Contains(strings.ToLower(rec.Name), needle)
	})
}

func (r *PizzaRepository) filter(ctx context.Context, keep func(pizza.ReconstructionDTO) bool) ([]*pizza.Pizza, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	result := make([]*pizza.Pizza, 0)
	for _, rec := range r.store.pizzas {
		if keep(rec) {
			result = append(result, pizza.RebuildFromDTO(rec))
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

func (r *PizzaRepository) Delete(ctx context.Context, p *pizza.Pizza) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := r.store.lockRow(ctx, tablePizzas, p.ID()); err != nil {
		return err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.pizzas[p.ID()]; !ok {
		return pizza.NewPizzaNotFoundError(p.ID())
	}
	remember(ctx, r.store.pizzas, p.ID())
	delete(r.store.pizzas, p.ID())
	return nil
}

var _ pizza.Repository = (*PizzaRepository)(nil)
