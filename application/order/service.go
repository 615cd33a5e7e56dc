/*
Package order Application Layer - Order Business Process Orchestration

Responsibilities of Application Layer:
1. Receive external requests (usually from Controller)
2. Call domain services for business rule validation
3. Call aggregate root methods to execute business operations
4. Use UoW to manage transactions and event collection (Outbox pattern)
5. Return results to caller

Important: Application services do not directly publish events!
- UoW collects events from aggregates and saves to outbox table before commit
- OutboxWorker reads outbox table asynchronously and publishes to the broker
*/
package order

import (
	"context"
	"time"

	"pizzeria/domain/customer"
	"pizzeria/domain/order"
	"pizzeria/domain/pizza"
	"pizzeria/domain/shared"
	"pizzeria/pkg/metrics"
	"pizzeria/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
)

const tracerName = "application/order"

// ApplicationService Order application service - coordinates order-related business processes
type ApplicationService struct {
	orderRepo          order.Repository
	orderDomainService *order.DomainService
	uowFactory         shared.UnitOfWorkFactory
	metrics            *metrics.Metrics
}

// NewApplicationService Create order application service
// Each write creates its own UnitOfWork from the factory; metrics may be nil.
func NewApplicationService(
	orderRepo order.Repository,
	customerRepo customer.Repository,
	pizzaRepo pizza.Repository,
	uowFactory shared.UnitOfWorkFactory,
	m *metrics.Metrics,
) *ApplicationService {
	return &ApplicationService{
		orderRepo: orderRepo,
		orderDomainService: order.NewDomainService(
			&customerCheckerAdapter{customerRepo: customerRepo},
			&catalogAdapter{pizzaRepo: pizzaRepo},
		),
		uowFactory: uowFactory,
		metrics:    m,
	}
}

// ============================================================================
// Commands
// ============================================================================

// CreateOrder Create order
// Customer check, catalog snapshot and persistence happen in one unit of work:
// either the order with all its items exists afterwards or nothing does.
func (s *ApplicationService) CreateOrder(ctx context.Context, req CreateOrderRequest) (resp *OrderResponse, err error) {
	ctx, span := tracing.Start(ctx, tracerName, "OrderService.CreateOrder",
		attribute.String("customer.id", req.CustomerID),
		attribute.Int("order.lines", len(req.Items)),
	)
	defer func() { tracing.End(span, err) }()

	var o *order.Order
	uow := s.uowFactory.New()
	err = uow.Execute(ctx, func(ctx context.Context) error {
		var err error
		o, err = s.orderDomainService.PlaceOrder(ctx, order.PlaceOrderCommand{
			CustomerID: req.CustomerID,
			Notes:      req.Notes,
			Items:      toLineRequests(req.Items),
		})
		if err != nil {
			return err
		}

		if err := s.orderRepo.Save(ctx, o); err != nil {
			return err
		}
		uow.RegisterNew(o)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.OrderPlaced()
	span.SetAttributes(attribute.String("order.id", o.ID()))
	return toOrderResponse(o), nil
}

// ChangeStatus applies one lifecycle transition. The order row is locked for
// the duration of the unit of work so concurrent transitions of the same order
// serialize and the loser sees the committed status.
func (s *ApplicationService) ChangeStatus(ctx context.Context, orderID string, t order.Transition, reason string) (resp *OrderResponse, err error) {
	ctx, span := tracing.Start(ctx, tracerName, "OrderService.ChangeStatus",
		attribute.String("order.id", orderID),
		attribute.String("order.transition", string(t)),
	)
	defer func() { tracing.End(span, err) }()

	var (
		o    *order.Order
		from order.Status
	)
	uow := s.uowFactory.New()
	err = uow.Execute(ctx, func(ctx context.Context) error {
		var err error
		o, err = s.orderRepo.FindByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}

		from = o.Status()
		if err := o.Apply(t, reason); err != nil {
			return err
		}

		if err := s.orderRepo.Save(ctx, o); err != nil {
			return err
		}
		uow.RegisterDirty(o)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.OrderTransitioned(string(from), string(o.Status()))
	return toOrderResponse(o), nil
}

// ConfirmOrder PENDING -> CONFIRMED
func (s *ApplicationService) ConfirmOrder(ctx context.Context, orderID string) (*OrderResponse, error) {
	return s.ChangeStatus(ctx, orderID, order.TransitionConfirm, "")
}

// StartPreparing CONFIRMED -> PREPARING
func (s *ApplicationService) StartPreparing(ctx context.Context, orderID string) (*OrderResponse, error) {
	return s.ChangeStatus(ctx, orderID, order.TransitionStartPreparing, "")
}

// MarkReady PREPARING -> READY
func (s *ApplicationService) MarkReady(ctx context.Context, orderID string) (*OrderResponse, error) {
	return s.ChangeStatus(ctx, orderID, order.TransitionMarkReady, "")
}

// MarkInDelivery READY -> IN_DELIVERY
func (s *ApplicationService) MarkInDelivery(ctx context.Context, orderID string) (*OrderResponse, error) {
	return s.ChangeStatus(ctx, orderID, order.TransitionMarkInDelivery, "")
}

// MarkDelivered IN_DELIVERY -> DELIVERED
func (s *ApplicationService) MarkDelivered(ctx context.Context, orderID string) (*OrderResponse, error) {
	return s.ChangeStatus(ctx, orderID, order.TransitionMarkDelivered, "")
}

// CancelOrder any non-terminal status -> CANCELLED
func (s *ApplicationService) CancelOrder(ctx context.Context, orderID, reason string) (*OrderResponse, error) {
	return s.ChangeStatus(ctx, orderID, order.TransitionCancel, reason)
}

// AddOrderItem snapshots a catalog pizza into a PENDING order.
func (s *ApplicationService) AddOrderItem(ctx context.Context, orderID string, req AddOrderItemRequest) (resp *OrderResponse, err error) {
	ctx, span := tracing.Start(ctx, tracerName, "OrderService.AddOrderItem",
		attribute.String("order.id", orderID),
		attribute.String("pizza.id", req.PizzaID),
	)
	defer func() { tracing.End(span, err) }()

	var o *order.Order
	uow := s.uowFactory.New()
	err = uow.Execute(ctx, func(ctx context.Context) error {
		var err error
		o, err = s.orderRepo.FindByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if o.Status() != order.StatusPending {
			return order.NewCannotModifyOrderError(o.ID(), o.Status())
		}

		item, err := s.orderDomainService.SnapshotItem(ctx, order.LineRequest{PizzaID: req.PizzaID, Quantity: req.Quantity})
		if err != nil {
			return err
		}
		o.AddItem(item)

		if err := s.orderRepo.Save(ctx, o); err != nil {
			return err
		}
		uow.RegisterDirty(o)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toOrderResponse(o), nil
}

// RemoveOrderItem removes one item from a PENDING order. The last item cannot be removed.
func (s *ApplicationService) RemoveOrderItem(ctx context.Context, orderID, itemID string) (resp *OrderResponse, err error) {
	ctx, span := tracing.Start(ctx, tracerName, "OrderService.RemoveOrderItem",
		attribute.String("order.id", orderID),
		attribute.String("order.item_id", itemID),
	)
	defer func() { tracing.End(span, err) }()

	var o *order.Order
	uow := s.uowFactory.New()
	err = uow.Execute(ctx, func(ctx context.Context) error {
		var err error
		o, err = s.orderRepo.FindByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if o.Status() != order.StatusPending {
			return order.NewCannotModifyOrderError(o.ID(), o.Status())
		}
		if _, ok := o.FindItem(itemID); !ok {
			return order.NewItemNotFoundError(o.ID(), itemID)
		}
		if len(o.Items()) == 1 {
			return order.NewLastItemRemovalError(o.ID())
		}
		o.RemoveItem(itemID)

		if err := s.orderRepo.Save(ctx, o); err != nil {
			return err
		}
		uow.RegisterDirty(o)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toOrderResponse(o), nil
}

// DeleteOrder removes the order and all of its items in one unit of work.
func (s *ApplicationService) DeleteOrder(ctx context.Context, orderID string) (err error) {
	ctx, span := tracing.Start(ctx, tracerName, "OrderService.DeleteOrder", attribute.String("order.id", orderID))
	defer func() { tracing.End(span, err) }()

	uow := s.uowFactory.New()
	return uow.Execute(ctx, func(ctx context.Context) error {
		o, err := s.orderRepo.FindByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		o.MarkDeleted()
		if err := s.orderRepo.Delete(ctx, o); err != nil {
			return err
		}
		uow.RegisterRemoved(o)
		return nil
	})
}

// ============================================================================
// Queries - sorted by created_at ascending, items populated
// ============================================================================

// GetOrder Get order information
func (s *ApplicationService) GetOrder(ctx context.Context, orderID string) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return toOrderResponse(o), nil
}

func (s *ApplicationService) ListOrders(ctx context.Context) ([]*OrderResponse, error) {
	orders, err := s.orderRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return toOrderResponses(orders), nil
}

func (s *ApplicationService) ListOrdersByCustomer(ctx context.Context, customerID string) ([]*OrderResponse, error) {
	orders, err := s.orderRepo.FindByCustomerID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return toOrderResponses(orders), nil
}

// ListOrdersByStatus accepts the status name case-insensitively.
func (s *ApplicationService) ListOrdersByStatus(ctx context.Context, status string) ([]*OrderResponse, error) {
	st, err := order.ParseStatus(status)
	if err != nil {
		return nil, err
	}
	orders, err := s.orderRepo.FindByStatus(ctx, st)
	if err != nil {
		return nil, err
	}
	return toOrderResponses(orders), nil
}

// ListOrdersByDateRange matches created_at in [start, end].
func (s *ApplicationService) ListOrdersByDateRange(ctx context.Context, start, end time.Time) ([]*OrderResponse, error) {
	if start.IsZero() || end.IsZero() {
		return nil, order.NewValidationError("date_range", "start and end are required")
	}
	if start.After(end) {
		return nil, order.NewValidationError("date_range", "start must not be after end")
	}
	orders, err := s.orderRepo.FindByCreatedAtRange(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return toOrderResponses(orders), nil
}
