package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"pizzeria/domain/customer"
	"pizzeria/domain/order"
	"pizzeria/domain/pizza"
	"pizzeria/domain/shared"
	"pizzeria/infrastructure/messaging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrder(t *testing.T, customerID string) *order.Order {
	t.Helper()
	item, err := order.NewItem("p1", "Margherita", 2, shared.MustParseMoney("40.00"))
	require.NoError(t, err)
	o, err := order.NewOrder(customerID, "", []*order.Item{item})
	require.NoError(t, err)
	return o
}

func TestOrderRepository_ReturnsCopies(t *testing.T) {
	repo := NewOrderRepository(NewStore())
	ctx := context.Background()

	o := newOrder(t, "c1")
	require.NoError(t, repo.Save(ctx, o))

	loaded, err := repo.FindByID(ctx, o.ID())
	require.NoError(t, err)
	extra, err := order.NewItem("p2", "Calabresa", 1, shared.MustParseMoney("30.00"))
	require.NoError(t, err)
	loaded.AddItem(extra)

	again, err := repo.FindByID(ctx, o.ID())
	require.NoError(t, err)
	assert.Len(t, again.Items(), 1)
	assert.Equal(t, "80.00", again.TotalAmount().String())
}

func TestOrderRepository_OptimisticLock(t *testing.T) {
	repo := NewOrderRepository(NewStore())
	ctx := context.Background()

	o := newOrder(t, "c1")
	require.NoError(t, repo.Save(ctx, o))

	a, _ := repo.FindByID(ctx, o.ID())
	b, _ := repo.FindByID(ctx, o.ID())
	require.NoError(t, a.Confirm())
	require.NoError(t, repo.Save(ctx, a))
	assert.Equal(t, 1, a.Version())

	require.NoError(t, b.Cancel(""))
	assert.ErrorIs(t, repo.Save(ctx, b), order.ErrConcurrentModification)
}

func TestOrderRepository_Queries(t *testing.T) {
	repo := NewOrderRepository(NewStore())
	ctx := context.Background()

	first := newOrder(t, "alice")
	second := newOrder(t, "bob")
	third := newOrder(t, "alice")
	for _, o := range []*order.Order{third, first, second} {
		require.NoError(t, repo.Save(ctx, o))
	}

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, first.ID(), all[0].ID())
	assert.Equal(t, third.ID(), all[2].ID())

	alice, err := repo.FindByCustomerID(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, alice, 2)

	count, err := repo.CountByCustomerID(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	pending, err := repo.FindByStatus(ctx, order.StatusPending)
	require.NoError(t, err)
	assert.Len(t, pending, 3)

	window, err := repo.FindByCreatedAtRange(ctx, second.CreatedAt(), second.CreatedAt())
	require.NoError(t, err)
	require.Len(t, window, 1)
	assert.Equal(t, second.ID(), window[0].ID())
}

func TestCustomerRepository_EmailUnique(t *testing.T) {
	repo := NewCustomerRepository(NewStore())
	ctx := context.Background()

	profile := customer.Profile{Name: "Ana", Email: "ana@example.com", Phone: "1", Address: "Rua A"}
	first, err := customer.NewCustomer(profile)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, first))

	profile.Email = "ANA@example.com"
	dup, err := customer.NewCustomer(profile)
	require.NoError(t, err)
	assert.ErrorIs(t, repo.Save(ctx, dup), customer.ErrEmailAlreadyExists)

	found, err := repo.FindByEmail(ctx, "Ana@Example.com")
	require.NoError(t, err)
	assert.Equal(t, first.ID(), found.ID())
}

func TestPizzaRepository_Search(t *testing.T) {
	repo := NewPizzaRepository(NewStore())
	ctx := context.Background()

	for _, name := range []string{"Quatro Queijos", "Margherita", "Queijo Extra"} {
		p, err := pizza.NewPizza(pizza.Details{Name: name, Price: shared.MustParseMoney("30"), Size: pizza.SizeSmall})
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, p))
	}

	found, err := repo.SearchByName(ctx, "queij")
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "Quatro Queijos", found[0].Name())
	assert.Equal(t, "Queijo Extra", found[1].Name())

	available, err := repo.FindAvailable(ctx)
	require.NoError(t, err)
	assert.Len(t, available, 3)
}

type capturePublisher struct {
	mu       sync.Mutex
	messages []messaging.Message
}

func (p *capturePublisher) Publish(_ context.Context, msg messaging.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, msg)
	return nil
}

func TestUnitOfWork_RollbackRestoresSnapshot(t *testing.T) {
	store := NewStore()
	orders := NewOrderRepository(store)
	customers := NewCustomerRepository(store)
	pub := &capturePublisher{}
	uow := NewUnitOfWorkFactory(store, pub).New()
	ctx := context.Background()

	kept := newOrder(t, "c1")
	require.NoError(t, orders.Save(ctx, kept))

	boom := errors.New("boom")
	err := uow.Execute(ctx, func(ctx context.Context) error {
		if err := orders.Delete(ctx, kept); err != nil {
			return err
		}
		c, err := customer.NewCustomer(customer.Profile{Name: "Ana", Email: "ana@example.com", Phone: "1", Address: "Rua A"})
		if err != nil {
			return err
		}
		if err := customers.Save(ctx, c); err != nil {
			return err
		}
		uow.RegisterNew(c)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = orders.FindByID(ctx, kept.ID())
	assert.NoError(t, err)
	all, err := customers.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.Empty(t, pub.messages)
}

func TestUnitOfWork_PublishesAfterSuccess(t *testing.T) {
	store := NewStore()
	orders := NewOrderRepository(store)
	pub := &capturePublisher{}
	uow := NewUnitOfWork(store, pub)

	o := newOrder(t, "c1")
	err := uow.Execute(context.Background(), func(ctx context.Context) error {
		if err := orders.Save(ctx, o); err != nil {
			return err
		}
		uow.RegisterNew(o)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, pub.messages, 1)
	assert.Equal(t, "order.placed", pub.messages[0].EventType)
	assert.Equal(t, o.ID(), pub.messages[0].AggregateID)
}

func TestUnitOfWork_SerializesWriters(t *testing.T) {
	store := NewStore()
	orders := NewOrderRepository(store)
	factory := NewUnitOfWorkFactory(store, nil)
	ctx := context.Background()

	o := newOrder(t, "c1")
	require.NoError(t, orders.Save(ctx, o))

	// 20 个并发确认，只有一个能成功，其余都看到非法状态转换
	var wg sync.WaitGroup
	results := make([]error, 20)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = factory.New().Execute(ctx, func(ctx context.Context) error {
				current, err := orders.FindByIDForUpdate(ctx, o.ID())
				if err != nil {
					return err
				}
				if err := current.Confirm(); err != nil {
					return err
				}
				return orders.Save(ctx, current)
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, order.ErrInvalidTransition)
	}
	assert.Equal(t, 1, succeeded)
}

func confirm(orders *OrderRepository, id string) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		current, err := orders.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := current.Confirm(); err != nil {
			return err
		}
		return orders.Save(ctx, current)
	}
}

func TestUnitOfWork_DifferentOrdersDoNotBlock(t *testing.T) {
	store := NewStore()
	orders := NewOrderRepository(store)
	factory := NewUnitOfWorkFactory(store, nil)
	ctx := context.Background()

	first := newOrder(t, "c1")
	second := newOrder(t, "c2")
	require.NoError(t, orders.Save(ctx, first))
	require.NoError(t, orders.Save(ctx, second))

	locked := make(chan struct{})
	proceed := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- factory.New().Execute(ctx, func(ctx context.Context) error {
			if _, err := orders.FindByIDForUpdate(ctx, first.ID()); err != nil {
				return err
			}
			close(locked)
			<-proceed
			return nil
		})
	}()
	<-locked

	// first 的行锁未释放，second 仍可以流转
	require.NoError(t, factory.New().Execute(ctx, confirm(orders, second.ID())))

	// 同一行则要等待，超时后放弃
	waitCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	err := factory.New().Execute(waitCtx, confirm(orders, first.ID()))
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(proceed)
	require.NoError(t, <-done)
	require.NoError(t, factory.New().Execute(ctx, confirm(orders, first.ID())))

	for _, id := range []string{first.ID(), second.ID()} {
		o, err := orders.FindByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, order.StatusConfirmed, o.Status())
		assert.Equal(t, 1, o.Version())
	}
}

func TestUnitOfWork_RollbackKeepsOtherCommits(t *testing.T) {
	store := NewStore()
	orders := NewOrderRepository(store)
	factory := NewUnitOfWorkFactory(store, nil)
	ctx := context.Background()

	failing := newOrder(t, "c1")
	other := newOrder(t, "c2")
	require.NoError(t, orders.Save(ctx, failing))
	require.NoError(t, orders.Save(ctx, other))

	boom := errors.New("boom")
	err := factory.New().Execute(ctx, func(ctx context.Context) error {
		if err := confirm(orders, failing.ID())(ctx); err != nil {
			return err
		}
		// 另一个工作单元在此期间提交
		if err := factory.New().Execute(context.Background(), confirm(orders, other.ID())); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	reverted, err := orders.FindByID(ctx, failing.ID())
	require.NoError(t, err)
	assert.Equal(t, order.StatusPending, reverted.Status())
	assert.Equal(t, 0, reverted.Version())

	committed, err := orders.FindByID(ctx, other.ID())
	require.NoError(t, err)
	assert.Equal(t, order.StatusConfirmed, committed.Status())
}
