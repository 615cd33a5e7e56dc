package po

import (
	"time"

	"pizzeria/domain/order"
	"pizzeria/domain/shared"

	"github.com/shopspring/decimal"
)

// OrderPO Order persistence object
// Note: Only used for database mapping, does not contain any business logic
// Defining GORM associations is prohibited here
type OrderPO struct {
	ID          string          `gorm:"primaryKey;size:64"`
	CustomerID  string          `gorm:"size:64;index;not null"` // Only store ID, no association with Customer
	Status      string          `gorm:"size:20;index;not null"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Notes       string          `gorm:"size:500"`
	Version     int             `gorm:"default:0;not null"`
	CreatedAt   time.Time       `gorm:"index;not null"`
	UpdatedAt   time.Time       `gorm:"not null"`
}

// TableName Specify table name
func (OrderPO) TableName() string {
	return "orders"
}

// OrderItemPO Order item persistence object
type OrderItemPO struct {
	ID         string          `gorm:"primaryKey;size:64"`
	OrderID    string          `gorm:"size:64;index;not null"` // Only store ID, no GORM association
	Position   int             `gorm:"not null"`
	PizzaID    string          `gorm:"size:64;not null"`
	PizzaName  string          `gorm:"size:100;not null"`
	Quantity   int             `gorm:"not null"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt  time.Time       `gorm:"not null"`
}

// TableName Specify table name
func (OrderItemPO) TableName() string {
	return "order_items"
}

// FromOrderDomain Convert domain model to persistence object
// Timestamps are explicit; the aggregate owns them, not GORM callbacks.
func FromOrderDomain(o *order.Order) (*OrderPO, []OrderItemPO) {
	orderPO := &OrderPO{
		ID:          o.ID(),
		CustomerID:  o.CustomerID(),
		Status:      string(o.Status()),
		TotalAmount: o.TotalAmount().Amount(),
		Notes:       o.Notes(),
		Version:     o.Version(),
		CreatedAt:   o.CreatedAt().UTC(),
		UpdatedAt:   o.UpdatedAt().UTC(),
	}

	items := o.Items()
	itemPOs := make([]OrderItemPO, len(items))
	for i, item := range items {
		itemPOs[i] = OrderItemPO{
			ID:         item.ID(),
			OrderID:    o.ID(),
			Position:   i,
			PizzaID:    item.PizzaID(),
			PizzaName:  item.PizzaName(),
			Quantity:   item.Quantity(),
			UnitPrice:  item.UnitPrice().Amount(),
			TotalPrice: item.TotalPrice().Amount(),
			CreatedAt:  item.CreatedAt().UTC(),
		}
	}

	return orderPO, itemPOs
}

// ToDomain Convert persistence object to domain model
// itemPOs must already be ordered by Position.
func (po *OrderPO) ToDomain(itemPOs []OrderItemPO) *order.Order {
	items := make([]*order.Item, len(itemPOs))
	for i, itemPO := range itemPOs {
		items[i] = order.RebuildItemFromDTO(order.ItemReconstructionDTO{
			ID:         itemPO.ID,
			PizzaID:    itemPO.PizzaID,
			PizzaName:  itemPO.PizzaName,
			Quantity:   itemPO.Quantity,
			UnitPrice:  shared.NewMoney(itemPO.UnitPrice),
			TotalPrice: shared.NewMoney(itemPO.TotalPrice),
			CreatedAt:  itemPO.CreatedAt,
		})
	}

	return order.RebuildFromDTO(order.ReconstructionDTO{
		ID:          po.ID,
		CustomerID:  po.CustomerID,
		Status:      order.Status(po.Status),
		TotalAmount: shared.NewMoney(po.TotalAmount),
		Notes:       po.Notes,
		Items:       items,
		Version:     po.Version,
		CreatedAt:   po.CreatedAt,
		UpdatedAt:   po.UpdatedAt,
	})
}
