package memory

import (
	"context"

	"pizzeria/domain/shared"
	"pizzeria/infrastructure/messaging"
	"pizzeria/pkg/logger"

	"go.uber.org/zap"
)

// UnitOfWork runs fn with row locks taken by the repositories and undoes the
// rows fn changed when it fails. Events of registered aggregates are published
// after a successful fn; there is no outbox, so a publish failure is only logged.
type UnitOfWork struct {
	store      *Store
	publisher  messaging.Publisher
	aggregates []shared.AggregateRoot
}

func NewUnitOfWork(store *Store, publisher messaging.Publisher) *UnitOfWork {
	return &UnitOfWork{
		store:      store,
		publisher:  publisher,
		aggregates: make([]shared.AggregateRoot, 0),
	}
}

func (u *UnitOfWork) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	u.aggregates = make([]shared.AggregateRoot, 0)

	// 嵌套调用加入外层事务
	if txFromContext(ctx) != nil {
		return fn(ctx)
	}

	t := &tx{held: make(map[string]chan struct{})}
	txCtx := context.WithValue(ctx, txKey{}, t)
	defer func() {
		if r := recover(); r != nil {
			u.store.rollback(t)
			t.release()
			panic(r)
		}
	}()

	if err := fn(txCtx); err != nil {
		u.store.rollback(t)
		t.release()
		return err
	}
	t.release()

	u.publish(ctx)
	return nil
}

func (u *UnitOfWork) publish(ctx context.Context) {
	if u.publisher == nil {
		return
	}
	for _, agg := range u.aggregates {
		for _, event := range agg.PullEvents() {
			msg, err := messaging.FromEvent(event)
			if err == nil {
				err = u.publisher.Publish(ctx, msg)
			}
			if err != nil {
				logger.FromContext(ctx).Error("Failed to publish domain event",
					zap.String("event_type", event.EventName()),
					zap.String("aggregate_id", agg.ID()),
					zap.Error(err),
				)
			}
		}
	}
}

// RegisterNew registers a newly created aggregate root for event collection
func (u *UnitOfWork) RegisterNew(aggregate shared.AggregateRoot) {
	u.aggregates = append(u.aggregates, aggregate)
}

// RegisterDirty registers a modified aggregate root for event collection
func (u *UnitOfWork) RegisterDirty(aggregate shared.AggregateRoot) {
	u.aggregates = append(u.aggregates, aggregate)
}

// RegisterRemoved registers a deleted aggregate root for event collection
func (u *UnitOfWork) RegisterRemoved(aggregate shared.AggregateRoot) {
	u.aggregates = append(u.aggregates, aggregate)
}

type UnitOfWorkFactory struct {
	store     *Store
	publisher messaging.Publisher
}

func NewUnitOfWorkFactory(store *Store, publisher messaging.Publisher) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{store: store, publisher: publisher}
}

func (f *UnitOfWorkFactory) New() shared.UnitOfWork {
	return NewUnitOfWork(f.store, f.publisher)
}

var (
	_ shared.UnitOfWork        = (*UnitOfWork)(nil)
	_ shared.UnitOfWorkFactory = (*UnitOfWorkFactory)(nil)
)
