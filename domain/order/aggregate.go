/*
Package order Order subdomain - Core layer of DDD architecture

The order aggregate owns its items: items are created, priced and removed only
through the Order root, and the order total is always the sum of item totals.

DDD Core Principles:
1. Domain layer does not depend on any other layer (pure business logic)
2. All fields are private, behavior exposed through methods
3. Business rules encapsulated within entities and value objects
*/
package order

import (
	"fmt"
	"time"
	"unicode/utf8"

	"pizzeria/domain/shared"

	"github.com/google/uuid"
)

// MaxNotesLength is the longest free-text note accepted on an order.
const MaxNotesLength = 500

// Order Order aggregate root
// All modifications to Order and its items must go through the Order aggregate root
type Order struct {
	id          string
	customerID  string
	status      Status
	totalAmount shared.Money
	notes       string
	items       []*Item
	version     int // Optimistic lock version number for concurrency control
	createdAt   time.Time
	updatedAt   time.Time

	events shared.EventRecorder
	isNew  bool // True if this aggregate was newly created (not loaded from DB)
}

// Item Order item - Entity within the aggregate (non-aggregate root)
// An item is a snapshot of a catalog pizza at the moment it was ordered;
// later catalog price changes never reach it.
type Item struct {
	id         string
	pizzaID    string
	pizzaName  string
	quantity   int
	unitPrice  shared.Money
	totalPrice shared.Money
	createdAt  time.Time
}

// ============================================================================
// Factory Methods
// ============================================================================

// NewItem builds an item snapshot. The item total is derived by the aggregate
// when the item is attached, never taken from the caller.
func NewItem(pizzaID, pizzaName string, quantity int, unitPrice shared.Money) (*Item, error) {
	if quantity <= 0 {
		return nil, NewInvalidQuantityError(quantity)
	}
	if unitPrice.IsNegative() {
		return nil, NewInvalidUnitPriceError(unitPrice)
	}
	if pizzaID == "" {
		return nil, NewValidationError("pizza_id", "pizza id is required")
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate order item ID: %w", err)
	}

	return &Item{
		id:        id.String(),
		pizzaID:   pizzaID,
		pizzaName: pizzaName,
		quantity:  quantity,
		unitPrice: unitPrice,
		createdAt: time.Now(),
	}, nil
}

// NewOrder Create new Order aggregate root in PENDING status.
// Items are attached in the given order and the total is recomputed.
func NewOrder(customerID, notes string, items []*Item) (*Order, error) {
	if len(items) == 0 {
		return nil, NewEmptyOrderItemsError()
	}
	if customerID == "" {
		return nil, NewValidationError("customer_id", "customer id is required")
	}
	if utf8.RuneCountInString(notes) > MaxNotesLength {
		return nil, NewValidationError("notes", fmt.Sprintf("notes must be at most %d characters", MaxNotesLength))
	}

	orderID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate order ID: %w", err)
	}

	now := time.Now()
	o := &Order{
		id:          orderID.String(),
		customerID:  customerID,
		status:      StatusPending,
		totalAmount: shared.ZeroMoney(),
		notes:       notes,
		items:       make([]*Item, 0, len(items)),
		version:     0,
		createdAt:   now,
		isNew:       true,
	}

	for _, item := range items {
		o.AddItem(item)
	}
	o.RecomputeTotal()
	o.updatedAt = now

	o.events.Record(NewOrderPlacedEvent(o))

	return o, nil
}

// ============================================================================
// Item management
// ============================================================================

// AddItem attaches an item, forcing its total to unitPrice * quantity, then
// recomputes the order total.
func (o *Order) AddItem(item *Item) {
	item.totalPrice = item.unitPrice.Multiply(item.quantity)
	o.items = append(o.items, item)
	o.RecomputeTotal()
	o.updatedAt = time.Now()

	if !o.isNew {
		o.events.Record(NewOrderItemsChangedEvent(o, "added", item))
	}
}

// RemoveItem detaches the item with the given id. Unknown ids are a no-op and
// report false.
func (o *Order) RemoveItem(itemID string) bool {
	for i, item := range o.items {
		if item.id != itemID {
			continue
		}
		o.items = append(o.items[:i], o.items[i+1:]...)
		o.RecomputeTotal()
		o.updatedAt = time.Now()
		if !o.isNew {
			o.events.Record(NewOrderItemsChangedEvent(o, "removed", item))
		}
		return true
	}
	return false
}

// FindItem returns the item with the given id.
func (o *Order) FindItem(itemID string) (*Item, bool) {
	for _, item := range o.items {
		if item.id == itemID {
			return item, true
		}
	}
	return nil, false
}

// RecomputeTotal sets the order total to the sum of item totals. Items whose
// total was never computed contribute zero.
func (o *Order) RecomputeTotal() {
	total := shared.ZeroMoney()
	for _, item := range o.items {
		total = total.Add(item.totalPrice)
	}
	o.totalAmount = total
}

// ============================================================================
// ReconstructionDTO - For Repository Layer Use Only
// ============================================================================

// ReconstructionDTO Order reconstruction data transfer object
// ⚠️ Note: This DTO should only be used in repository implementation, not called from application layer
type ReconstructionDTO struct {
	ID          string
	CustomerID  string
	Status      Status
	TotalAmount shared.Money
	Notes       string
	Items       []*Item
	Version     int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ItemReconstructionDTO Order item reconstruction data transfer object
type ItemReconstructionDTO struct {
	ID         string
	PizzaID    string
	PizzaName  string
	Quantity   int
	UnitPrice  shared.Money
	TotalPrice shared.Money
	CreatedAt  time.Time
}

// RebuildFromDTO Reconstruct Order aggregate root from persisted state.
// Stored totals are trusted as written; they were derived by the aggregate.
func RebuildFromDTO(dto ReconstructionDTO) *Order {
	items := make([]*Item, len(dto.Items))
	copy(items, dto.Items)
	return &Order{
		id:          dto.ID,
		customerID:  dto.CustomerID,
		status:      dto.Status,
		totalAmount: dto.TotalAmount,
		notes:       dto.Notes,
		items:       items,
		version:     dto.Version,
		createdAt:   dto.CreatedAt,
		updatedAt:   dto.UpdatedAt,
		isNew:       false,
	}
}

// RebuildItemFromDTO Reconstruct order item from persisted state
func RebuildItemFromDTO(dto ItemReconstructionDTO) *Item {
	return &Item{
		id:         dto.ID,
		pizzaID:    dto.PizzaID,
		pizzaName:  dto.PizzaName,
		quantity:   dto.Quantity,
		unitPrice:  dto.UnitPrice,
		totalPrice: dto.TotalPrice,
		createdAt:  dto.CreatedAt,
	}
}

// ============================================================================
// Persistence bookkeeping
// ============================================================================

// IsNew reports whether the order has never been saved.
func (o *Order) IsNew() bool { return o.isNew }

// ClearNewFlag is called by repositories after the first insert.
func (o *Order) ClearNewFlag() { o.isNew = false }

// IncrementVersionForSave is called by repositories after a versioned update.
func (o *Order) IncrementVersionForSave() { o.version++ }

// ============================================================================
// Getters
// ============================================================================

func (o *Order) ID() string                { return o.id }
func (o *Order) CustomerID() string        { return o.customerID }
func (o *Order) Status() Status            { return o.status }
func (o *Order) TotalAmount() shared.Money { return o.totalAmount }
func (o *Order) Notes() string             { return o.notes }
func (o *Order) Version() int              { return o.version }
func (o *Order) CreatedAt() time.Time      { return o.createdAt }
func (o *Order) UpdatedAt() time.Time      { return o.updatedAt }

// Items returns the items in insertion order. The slice is a copy.
func (o *Order) Items() []*Item {
	items := make([]*Item, len(o.items))
	copy(items, o.items)
	return items
}

// PullEvents returns and clears recorded domain events.
func (o *Order) PullEvents() []shared.DomainEvent {
	return o.events.PullEvents()
}

func (i *Item) ID() string               { return i.id }
func (i *Item) PizzaID() string          { return i.pizzaID }
func (i *Item) PizzaName() string        { return i.pizzaName }
func (i *Item) Quantity() int            { return i.quantity }
func (i *Item) UnitPrice() shared.Money  { return i.unitPrice }
func (i *Item) TotalPrice() shared.Money { return i.totalPrice }
func (i *Item) CreatedAt() time.Time     { return i.createdAt }

var _ shared.AggregateRoot = (*Order)(nil)
