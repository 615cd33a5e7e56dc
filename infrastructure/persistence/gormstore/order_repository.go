package gormstore

import (
	"context"
	"errors"
	"time"

	"pizzeria/domain/order"
	"pizzeria/domain/shared"
	"pizzeria/infrastructure/persistence"
	"pizzeria/infrastructure/persistence/gormstore/po"
	"pizzeria/infrastructure/persistence/specification"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderRepository GORM implementation of order repository
// DDD principle: Repository is only responsible for persistence of aggregate roots, not event publishing
// GORM usage specification: Association features are prohibited to maintain DDD aggregate boundaries
type OrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository Create order repository
func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// getDB returns the transaction from context if available, otherwise the default db
func (r *OrderRepository) getDB(ctx context.Context) *gorm.DB {
	if tx := persistence.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.db.WithContext(ctx)
}

// Save Save order (create or update)
// Note: Manually manage saving of orders and order items, do not use GORM associations
// When called within UoW.Execute(), it uses the transaction from context
// When called standalone, it creates its own transaction for atomicity
func (r *OrderRepository) Save(ctx context.Context, o *order.Order) error {
	if tx := persistence.TxFromContext(ctx); tx != nil {
		return r.saveWithTx(tx, o)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return r.saveWithTx(tx, o)
	})
}

// saveWithTx performs the actual save operations within a transaction
func (r *OrderRepository) saveWithTx(tx *gorm.DB, o *order.Order) error {
	orderPO, itemPOs := po.FromOrderDomain(o)

	if o.IsNew() {
		if err := tx.Create(orderPO).Error; err != nil {
			return err
		}
	} else {
		expectedVersion := o.Version()

		// 严格乐观锁：必须使用聚合当前版本作为更新条件，避免静默覆盖并发写入。
		result := tx.Model(&po.OrderPO{}).
			Where("id = ? AND version = ?", o.ID(), expectedVersion).
			Updates(map[string]interface{}{
				"status":       orderPO.Status,
				"total_amount": orderPO.TotalAmount,
				"notes":        orderPO.Notes,
				"version":      expectedVersion + 1,
				"updated_at":   orderPO.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&po.OrderPO{}).Where("id = ?", o.ID()).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return order.NewOrderNotFoundError(o.ID())
			}
			return order.NewConcurrentModificationError(o.ID())
		}

		// Delete old order items (simple strategy: delete then insert)
		if err := tx.Where("order_id = ?", o.ID()).Delete(&po.OrderItemPO{}).Error; err != nil {
			return err
		}
	}

	if len(itemPOs) > 0 {
		if err := tx.Create(&itemPOs).Error; err != nil {
			return err
		}
	}

	if !o.IsNew() {
		o.IncrementVersionForSave()
	}
	o.ClearNewFlag()
	return nil
}

// FindByID Find order by ID
func (r *OrderRepository) FindByID(ctx context.Context, id string) (*order.Order, error) {
	return r.findOne(ctx, r.getDB(ctx), id)
}

// FindByIDForUpdate locks the order row until the surrounding transaction ends.
// SQLite has no row locks; its single writer connection serializes instead.
func (r *OrderRepository) FindByIDForUpdate(ctx context.Context, id string) (*order.Order, error) {
	return r.findOne(ctx, r.getDB(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *OrderRepository) findOne(ctx context.Context, db *gorm.DB, id string) (*order.Order, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var orderPO po.OrderPO
	if err := db.First(&orderPO, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.NewOrderNotFoundError(id)
		}
		return nil, err
	}

	// Manually query order items (do not use GORM's Preload to keep aggregate boundaries clear)
	var itemPOs []po.OrderItemPO
	if err := r.getDB(ctx).Where("order_id = ?", id).Order("position ASC").Find(&itemPOs).Error; err != nil {
		return nil, err
	}

	return orderPO.ToDomain(itemPOs), nil
}

func (r *OrderRepository) FindAll(ctx context.Context) ([]*order.Order, error) {
	return r.findWhere(ctx, nil)
}

func (r *OrderRepository) FindByCustomerID(ctx context.Context, customerID string) ([]*order.Order, error) {
	return r.FindBySpecification(ctx, order.NewByCustomerIDSpecification(customerID))
}

func (r *OrderRepository) FindByStatus(ctx context.Context, status order.Status) ([]*order.Order, error) {
	return r.FindBySpecification(ctx, order.NewByStatusSpecification(status))
}

// FindByCreatedAtRange is inclusive on both ends.
func (r *OrderRepository) FindByCreatedAtRange(ctx context.Context, start, end time.Time) ([]*order.Order, error) {
	return r.FindBySpecification(ctx, order.NewByCreatedAtRangeSpecification(start, end))
}

// FindBySpecification translates the specification to SQL when every leaf is
// known and falls back to filtering all orders in memory otherwise.
func (r *OrderRepository) FindBySpecification(ctx context.Context, spec shared.Specification[*order.Order]) ([]*order.Order, error) {
	if scope, ok := specification.OrderTranslator.Scope(spec); ok {
		return r.findWhere(ctx, scope)
	}

	all, err := r.findWhere(ctx, nil)
	if err != nil {
		return nil, err
	}
	matched := make([]*order.Order, 0, len(all))
	for _, o := range all {
		if spec.IsSatisfiedBy(ctx, o) {
			matched = append(matched, o)
		}
	}
	return matched, nil
}

// findWhere loads matching orders ordered by created_at, id and fetches all
// their items with one IN query.
func (r *OrderRepository) findWhere(ctx context.Context, scope func(*gorm.DB) *gorm.DB) ([]*order.Order, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	db := r.getDB(ctx).Model(&po.OrderPO{})
	if scope != nil {
		db = db.Scopes(scope)
	}

	var orderPOs []po.OrderPO
	if err := db.Order("created_at ASC").Order("id ASC").Find(&orderPOs).Error; err != nil {
		return nil, err
	}
	if len(orderPOs) == 0 {
		return []*order.Order{}, nil
	}

	ids := make([]string, len(orderPOs))
	for i, o := range orderPOs {
		ids[i] = o.ID
	}
	var itemPOs []po.OrderItemPO
	if err := r.getDB(ctx).Where("order_id IN ?", ids).Order("order_id ASC").Order("position ASC").Find(&itemPOs).Error; err != nil {
		return nil, err
	}
	itemsByOrder := make(map[string][]po.OrderItemPO, len(orderPOs))
	for _, item := range itemPOs {
		itemsByOrder[item.OrderID] = append(itemsByOrder[item.OrderID], item)
	}

	orders := make([]*order.Order, len(orderPOs))
	for i := range orderPOs {
		orders[i] = orderPOs[i].ToDomain(itemsByOrder[orderPOs[i].ID])
	}
	return orders, nil
}

func (r *OrderRepository) CountByCustomerID(ctx context.Context, customerID string) (int64, error) {
	var count int64
	err := r.getDB(ctx).Model(&po.OrderPO{}).Where("customer_id = ?", customerID).Count(&count).Error
	return count, err
}

// Delete removes the order and its items in one transaction.
func (r *OrderRepository) Delete(ctx context.Context, o *order.Order) error {
	del := func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", o.ID()).Delete(&po.OrderItemPO{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", o.ID()).Delete(&po.OrderPO{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return order.NewOrderNotFoundError(o.ID())
		}
		return nil
	}

	if tx := persistence.TxFromContext(ctx); tx != nil {
		return del(tx)
	}
	return r.db.WithContext(ctx).Transaction(del)
}

// Compile-time interface implementation check
var _ order.Repository = (*OrderRepository)(nil)
