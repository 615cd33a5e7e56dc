package order

import (
	"time"
)

// OrderPlacedEvent is recorded when a new order is created.
type OrderPlacedEvent struct {
	OrderID     string    `json:"order_id"`
	CustomerID  string    `json:"customer_id"`
	TotalAmount string    `json:"total_amount"`
	ItemCount   int       `json:"item_count"`
	Timestamp   time.Time `json:"occurred_on"`
}

func NewOrderPlacedEvent(o *Order) *OrderPlacedEvent {
	return &OrderPlacedEvent{
		OrderID:     o.id,
		CustomerID:  o.customerID,
		TotalAmount: o.totalAmount.String(),
		ItemCount:   len(o.items),
		Timestamp:   time.Now(),
	}
}

func (e *OrderPlacedEvent) EventName() string      { return "order.placed" }
func (e *OrderPlacedEvent) OccurredOn() time.Time  { return e.Timestamp }
func (e *OrderPlacedEvent) GetAggregateID() string { return e.OrderID }

// OrderStatusChangedEvent is recorded on every successful lifecycle transition.
type OrderStatusChangedEvent struct {
	OrderID    string     `json:"order_id"`
	From       Status     `json:"from"`
	To         Status     `json:"to"`
	Transition Transition `json:"transition"`
	Reason     string     `json:"reason,omitempty"`
	Timestamp  time.Time  `json:"occurred_on"`
}

func NewOrderStatusChangedEvent(orderID string, from, to Status, t Transition, reason string) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		OrderID:    orderID,
		From:       from,
		To:         to,
		Transition: t,
		Reason:     reason,
		Timestamp:  time.Now(),
	}
}

// EventName is derived from the target status, e.g. "order.confirmed".
func (e *OrderStatusChangedEvent) EventName() string {
	switch e.To {
	case StatusConfirmed:
		return "order.confirmed"
	case StatusPreparing:
		return "order.preparing"
	case StatusReady:
		return "order.ready"
	case StatusInDelivery:
		return "order.in_delivery"
	case StatusDelivered:
		return "order.delivered"
	case StatusCancelled:
		return "order.cancelled"
	default:
		return "order.status_changed"
	}
}
func (e *OrderStatusChangedEvent) OccurredOn() time.Time  { return e.Timestamp }
func (e *OrderStatusChangedEvent) GetAggregateID() string { return e.OrderID }

// OrderItemsChangedEvent is recorded when a pending order gains or loses an item.
type OrderItemsChangedEvent struct {
	OrderID     string    `json:"order_id"`
	Action      string    `json:"action"`
	ItemID      string    `json:"item_id"`
	PizzaID     string    `json:"pizza_id"`
	Quantity    int       `json:"quantity"`
	TotalAmount string    `json:"total_amount"`
	Timestamp   time.Time `json:"occurred_on"`
}

func NewOrderItemsChangedEvent(o *Order, action string, item *Item) *OrderItemsChangedEvent {
	return &OrderItemsChangedEvent{
		OrderID:     o.id,
		Action:      action,
		ItemID:      item.id,
		PizzaID:     item.pizzaID,
		Quantity:    item.quantity,
		TotalAmount: o.totalAmount.String(),
		Timestamp:   time.Now(),
	}
}

func (e *OrderItemsChangedEvent) EventName() string      { return "order.items_changed" }
func (e *OrderItemsChangedEvent) OccurredOn() time.Time  { return e.Timestamp }
func (e *OrderItemsChangedEvent) GetAggregateID() string { return e.OrderID }

// OrderDeletedEvent is recorded when an order and its items are removed.
type OrderDeletedEvent struct {
	OrderID    string    `json:"order_id"`
	CustomerID string    `json:"customer_id"`
	Status     Status    `json:"status"`
	Timestamp  time.Time `json:"occurred_on"`
}

func NewOrderDeletedEvent(o *Order) *OrderDeletedEvent {
	return &OrderDeletedEvent{
		OrderID:    o.id,
		CustomerID: o.customerID,
		Status:     o.status,
		Timestamp:  time.Now(),
	}
}

func (e *OrderDeletedEvent) EventName() string      { return "order.deleted" }
func (e *OrderDeletedEvent) OccurredOn() time.Time  { return e.Timestamp }
func (e *OrderDeletedEvent) GetAggregateID() string { return e.OrderID }

// MarkDeleted records the deletion event; the repository performs the removal.
func (o *Order) MarkDeleted() {
	o.events.Record(NewOrderDeletedEvent(o))
}
