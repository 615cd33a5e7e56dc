package order

import (
	"context"

	"pizzeria/domain/shared"
)

// CustomerChecker verifies that an order's customer exists.
// Implementations return a NotFound error naming the customer id.
type CustomerChecker interface {
	EnsureCustomerExists(ctx context.Context, customerID string) error
}

// CatalogEntry is the part of a catalog pizza an order item snapshots.
type CatalogEntry struct {
	PizzaID string
	Name    string
	Price   shared.Money
}

// Catalog resolves pizzas by id at their current price.
// Implementations return a NotFound error naming the pizza id.
type Catalog interface {
	LookupPizza(ctx context.Context, pizzaID string) (CatalogEntry, error)
}

// LineRequest is one requested pizza and quantity. Prices always come from the catalog.
type LineRequest struct {
	PizzaID  string
	Quantity int
}

// PlaceOrderCommand carries everything needed to create an order.
type PlaceOrderCommand struct {
	CustomerID string
	Notes      string
	Items      []LineRequest
}

// DomainService Order domain service
// DDD principle: Domain service can use lookups to query data but does not call Save for persistence
type DomainService struct {
	customers CustomerChecker
	catalog   Catalog
}

// NewDomainService Create order domain service
func NewDomainService(customers CustomerChecker, catalog Catalog) *DomainService {
	return &DomainService{
		customers: customers,
		catalog:   catalog,
	}
}

// PlaceOrder builds a new PENDING order:
//  1. reject an empty item list or a non-positive quantity before any lookup
//  2. require the customer to exist
//  3. resolve every pizza in input order, failing on the first unknown id
//  4. snapshot name and current price into the items and compute totals
//
// The returned order is not persisted.
func (s *DomainService) PlaceOrder(ctx context.Context, cmd PlaceOrderCommand) (*Order, error) {
	if len(cmd.Items) == 0 {
		return nil, NewEmptyOrderItemsError()
	}
	for _, line := range cmd.Items {
		if line.Quantity <= 0 {
			return nil, NewInvalidQuantityError(line.Quantity)
		}
	}

	if err := s.customers.EnsureCustomerExists(ctx, cmd.CustomerID); err != nil {
		return nil, err
	}

	items := make([]*Item, 0, len(cmd.Items))
	for _, line := range cmd.Items {
		item, err := s.SnapshotItem(ctx, line)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return NewOrder(cmd.CustomerID, cmd.Notes, items)
}

// SnapshotItem resolves one pizza and copies its name and current price into a new item.
func (s *DomainService) SnapshotItem(ctx context.Context, line LineRequest) (*Item, error) {
	if line.Quantity <= 0 {
		return nil, NewInvalidQuantityError(line.Quantity)
	}
	entry, err := s.catalog.LookupPizza(ctx, line.PizzaID)
	if err != nil {
		return nil, err
	}
	return NewItem(entry.PizzaID, entry.Name, line.Quantity, entry.Price)
}
