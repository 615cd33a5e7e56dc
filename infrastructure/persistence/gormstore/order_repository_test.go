package gormstore

import (
	"context"
	"testing"
	"time"

	"pizzeria/config"
	"pizzeria/domain/order"
	"pizzeria/domain/shared"
	"pizzeria/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestOrderRepository_SaveAndFind(t *testing.T) {
	repo := NewOrderRepository(openTestDB(t))
	ctx := context.Background()

	o := newTestOrder(t, "c1", "10.00", "20.50", "5.25")
	require.NoError(t, repo.Save(ctx, o))
	assert.False(t, o.IsNew())

	found, err := repo.FindByID(ctx, o.ID())
	require.NoError(t, err)
	assert.Equal(t, o.CustomerID(), found.CustomerID())
	assert.Equal(t, order.StatusPending, found.Status())
	assert.Equal(t, "66.75", found.TotalAmount().String())
	require.Len(t, found.Items(), 3)
	for i, item := range o.Items() {
		assert.Equal(t, item.ID(), found.Items()[i].ID(), "items keep insertion order")
		assert.Equal(t, item.TotalPrice().String(), found.Items()[i].TotalPrice().String())
	}
	assert.WithinDuration(t, o.CreatedAt(), found.CreatedAt(), time.Millisecond)
}

func TestOrderRepository_FindByIDNotFound(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	defer logger.SetForTest(zap.New(core))()

	db := openTestDBWith(t, NewConfig(config.DatabaseConfig{LogLevel: "warn", IgnoreRecordNotFound: true}))
	repo := NewOrderRepository(db)

	_, err := repo.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, order.ErrOrderNotFound)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	_, err = NewPizzaRepository(db).FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, shared.ErrNotFound)

	// 找不到记录是正常的业务结果，不应按 SQL 错误记录
	assert.Zero(t, logs.FilterLevelExact(zapcore.ErrorLevel).Len())
}

func TestOrderRepository_FindByIDIsIdempotent(t *testing.T) {
	repo := NewOrderRepository(openTestDB(t))
	ctx := context.Background()

	o := newTestOrder(t, "c1", "12.40", "7.35")
	require.NoError(t, repo.Save(ctx, o))
	loaded, err := repo.FindByID(ctx, o.ID())
	require.NoError(t, err)
	require.NoError(t, loaded.Cancel("cliente desistiu"))
	require.NoError(t, repo.Save(ctx, loaded))

	first, err := repo.FindByID(ctx, o.ID())
	require.NoError(t, err)
	second, err := repo.FindByID(ctx, o.ID())
	require.NoError(t, err)

	assert.Equal(t, first.ID(), second.ID())
	assert.Equal(t, first.Status(), second.Status())
	assert.Equal(t, first.Version(), second.Version())
	assert.Equal(t, first.Notes(), second.Notes())
	assert.True(t, first.TotalAmount().Equals(second.TotalAmount()))
	assert.True(t, first.CreatedAt().Equal(second.CreatedAt()))
	assert.True(t, first.UpdatedAt().Equal(second.UpdatedAt()))
	require.Len(t, second.Items(), len(first.Items()))
	for i, item := range first.Items() {
		other := second.Items()[i]
		assert.Equal(t, item.ID(), other.ID())
		assert.Equal(t, item.Quantity(), other.Quantity())
		assert.True(t, item.TotalPrice().Equals(other.TotalPrice()))
		assert.True(t, item.CreatedAt().Equal(other.CreatedAt()))
	}
}

func TestOrderRepository_UpdateBumpsVersion(t *testing.T) {
	repo := NewOrderRepository(openTestDB(t))
	ctx := context.Background()

	o := newTestOrder(t, "c1", "10.00")
	require.NoError(t, repo.Save(ctx, o))

	loaded, err := repo.FindByID(ctx, o.ID())
	require.NoError(t, err)
	require.NoError(t, loaded.Confirm())
	require.NoError(t, repo.Save(ctx, loaded))
	assert.Equal(t, 1, loaded.Version())

	reloaded, err := repo.FindByIDForUpdate(ctx, o.ID())
	require.NoError(t, err)
	assert.Equal(t, order.StatusConfirmed, reloaded.Status())
	assert.Equal(t, 1, reloaded.Version())
	assert.Len(t, reloaded.Items(), 1)
}

func TestOrderRepository_StaleVersionIsRejected(t *testing.T) {
	repo := NewOrderRepository(openTestDB(t))
	ctx := context.Background()

	o := newTestOrder(t, "c1", "10.00")
	require.NoError(t, repo.Save(ctx, o))

	first, err := repo.FindByID(ctx, o.ID())
	require.NoError(t, err)
	second, err := repo.FindByID(ctx, o.ID())
	require.NoError(t, err)

	require.NoError(t, first.Confirm())
	require.NoError(t, repo.Save(ctx, first))

	require.NoError(t, second.Cancel("changed my mind"))
	err = repo.Save(ctx, second)
	assert.ErrorIs(t, err, order.ErrConcurrentModification)
	assert.ErrorIs(t, err, shared.ErrConflict)

	current, err := repo.FindByID(ctx, o.ID())
	require.NoError(t, err)
	assert.Equal(t, order.StatusConfirmed, current.Status())
}

func TestOrderRepository_ItemsReplacedOnUpdate(t *testing.T) {
	repo := NewOrderRepository(openTestDB(t))
	ctx := context.Background()

	o := newTestOrder(t, "c1", "10.00", "20.00")
	require.NoError(t, repo.Save(ctx, o))

	removed := o.Items()[0].ID()
	require.True(t, o.RemoveItem(removed))
	require.NoError(t, repo.Save(ctx, o))

	found, err := repo.FindByID(ctx, o.ID())
	require.NoError(t, err)
	require.Len(t, found.Items(), 1)
	assert.Equal(t, "40.00", found.TotalAmount().String())
}

func TestOrderRepository_Queries(t *testing.T) {
	repo := NewOrderRepository(openTestDB(t))
	ctx := context.Background()

	a := newTestOrder(t, "alice", "10.00")
	b := newTestOrder(t, "bob", "12.00")
	c := newTestOrder(t, "alice", "15.00")
	for _, o := range []*order.Order{a, b, c} {
		require.NoError(t, repo.Save(ctx, o))
	}
	require.NoError(t, c.Cancel(""))
	require.NoError(t, repo.Save(ctx, c))

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{a.ID(), b.ID(), c.ID()}, ids(all))

	byCustomer, err := repo.FindByCustomerID(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{a.ID(), c.ID()}, ids(byCustomer))

	cancelled, err := repo.FindByStatus(ctx, order.StatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, []string{c.ID()}, ids(cancelled))

	inRange, err := repo.FindByCreatedAtRange(ctx, b.CreatedAt(), c.CreatedAt())
	require.NoError(t, err)
	assert.Equal(t, []string{b.ID(), c.ID()}, ids(inRange))

	count, err := repo.CountByCustomerID(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

type minTotalSpec struct{ min shared.Money }

func (s minTotalSpec) IsSatisfiedBy(_ context.Context, o *order.Order) bool {
	return !s.min.IsGreaterThan(o.TotalAmount())
}

func TestOrderRepository_FindBySpecificationFallsBackInMemory(t *testing.T) {
	repo := NewOrderRepository(openTestDB(t))
	ctx := context.Background()

	small := newTestOrder(t, "alice", "10.00")
	big := newTestOrder(t, "alice", "99.00")
	require.NoError(t, repo.Save(ctx, small))
	require.NoError(t, repo.Save(ctx, big))

	spec := shared.And[*order.Order](
		order.NewByCustomerIDSpecification("alice"),
		minTotalSpec{min: shared.MustParseMoney("50")},
	)
	found, err := repo.FindBySpecification(ctx, spec)
	require.NoError(t, err)
	assert.Equal(t, []string{big.ID()}, ids(found))
}

func TestOrderRepository_Delete(t *testing.T) {
	db := openTestDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	o := newTestOrder(t, "c1", "10.00", "11.00")
	require.NoError(t, repo.Save(ctx, o))
	require.NoError(t, repo.Delete(ctx, o))

	var items int64
	require.NoError(t, db.Table("order_items").Where("order_id = ?", o.ID()).Count(&items).Error)
	assert.Zero(t, items)

	assert.ErrorIs(t, repo.Delete(ctx, o), order.ErrOrderNotFound)
}

func ids(orders []*order.Order) []string {
	out := make([]string, len(orders))
	for i, o := range orders {
		out[i] = o.ID()
	}
	return out
}
