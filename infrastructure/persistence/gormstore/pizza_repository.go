package gormstore

import (
	"context"
	"errors"
	"strings"

	"pizzeria/domain/pizza"
	"pizzeria/infrastructure/persistence"
	"pizzeria/infrastructure/persistence/gormstore/po"

	"gorm.io/gorm"
)

// PizzaRepository GORM implementation of the pizza catalog
type PizzaRepository struct {
	db *gorm.DB
}

func NewPizzaRepository(db *gorm.DB) *PizzaRepository {
	return &PizzaRepository{db: db}
}

func (r *PizzaRepository) getDB(ctx context.Context) *gorm.DB {
	if tx := persistence.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.db.WithContext(ctx)
}

func (r *PizzaRepository) Save(ctx context.Context, p *pizza.Pizza) error {
	pizzaPO := po.FromPizzaDomain(p)
	db := r.getDB(ctx)

	if p.IsNew() {
		if err := db.Create(pizzaPO).Error; err != nil {
			return err
		}
		p.ClearNewFlag()
		return nil
	}

	expectedVersion := p.Version()
	result := db.Model(&po.PizzaPO{}).
		Where("id = ? AND version = ?", p.ID(), expectedVersion).
		Updates(map[string]interface{}{
			"name":        pizzaPO.Name,
			"description": pizzaPO.Description,
			"price":       pizzaPO.Price,
			"size":        pizzaPO.Size,
			"available":   pizzaPO.Available,
			"version":     expectedVersion + 1,
			"updated_at":  pizzaPO.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := db.Model(&po.PizzaPO{}).Where("id = ?", p.ID()).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return pizza.NewPizzaNotFoundError(p.ID())
		}
		return pizza.NewConcurrentModificationError(p.ID())
	}

	p.IncrementVersionForSave()
	return nil
}

func (r *PizzaRepository) FindByID(ctx context.Context, id string) (*pizza.Pizza, error) {
	var pizzaPO po.PizzaPO
	if err := r.getDB(ctx).First(&pizzaPO, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pizza.NewPizzaNotFoundError(id)
		}
		return nil, err
	}
	return pizzaPO.ToDomain(), nil
}

func (r *PizzaRepository) FindAvailable(ctx context.Context) ([]*pizza.Pizza, error) {
	return r.find(r.getDB(ctx).Where("available = ?", true))
}

// SearchByName LIKE 转义 % 和 _，避免用户输入变成通配符
func (r *PizzaRepository) SearchByName(ctx context.Context, name string) ([]*pizza.Pizza, error) {
	pattern := "%" + escapeLike(strings.ToLower(strings.TrimSpace(name))) + "%"
	return r.find(r.getDB(ctx).Where("LOWER(name) LIKE ? ESCAPE '!'", pattern))
}

func (r *PizzaRepository) find(db *gorm.DB) ([]*pizza.Pizza, error) {
	var pizzaPOs []po.PizzaPO
	if err := db.Order("name ASC").Order("id ASC").Find(&pizzaPOs).Error; err != nil {
		return nil, err
	}
	pizzas := make([]*pizza.Pizza, len(pizzaPOs))
	for i := range pizzaPOs {
		pizzas[i] = pizzaPOs[i].ToDomain()
	}
	return pizzas, nil
}

func (r *PizzaRepository) Delete(ctx context.Context, p *pizza.Pizza) error {
	result := r.getDB(ctx).Where("id = ?", p.ID()).Delete(&po.PizzaPO{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pizza.NewPizzaNotFoundError(p.ID())
	}
	return nil
}

func escapeLike(s string) string {
	return strings.NewReplacer("!", "!!", "%", "!%", "_", "!_").Replace(s)
}

var _ pizza.Repository = (*PizzaRepository)(nil)
