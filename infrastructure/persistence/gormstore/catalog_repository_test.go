package gormstore

import (
	"context"
	"testing"

	"pizzeria/domain/customer"
	"pizzeria/domain/order"
	"pizzeria/domain/pizza"
	"pizzeria/domain/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomerRepository_DuplicateEmail(t *testing.T) {
	repo := NewCustomerRepository(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, newTestCustomer(t, "ana@example.com", "Lisboa")))

	err := repo.Save(ctx, newTestCustomer(t, "ANA@example.com", "Porto"))
	assert.ErrorIs(t, err, customer.ErrEmailAlreadyExists)
	assert.ErrorIs(t, err, shared.ErrConflict)
}

func TestCustomerRepository_FindAndUpdate(t *testing.T) {
	repo := NewCustomerRepository(openTestDB(t))
	ctx := context.Background()

	c := newTestCustomer(t, "ana@example.com", "Lisboa")
	require.NoError(t, repo.Save(ctx, c))

	found, err := repo.FindByEmail(ctx, " Ana@Example.com ")
	require.NoError(t, err)
	assert.Equal(t, c.ID(), found.ID())

	require.NoError(t, found.UpdateProfile(customer.Profile{
		Name:    "Ana Costa",
		Email:   "ana.costa@example.com",
		Phone:   "11988887777",
		Address: "Rua B, 2",
		City:    "Porto",
	}))
	require.NoError(t, repo.Save(ctx, found))

	reloaded, err := repo.FindByID(ctx, c.ID())
	require.NoError(t, err)
	assert.Equal(t, "Ana Costa", reloaded.Name())
	assert.Equal(t, 1, reloaded.Version())

	// c still holds version 0
	require.NoError(t, c.UpdateProfile(customer.Profile{Name: "X", Email: "x@example.com", Phone: "1", Address: "Y"}))
	assert.ErrorIs(t, repo.Save(ctx, c), customer.ErrConcurrentModification)

	_, err = repo.FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, customer.ErrCustomerNotFound)
}

func TestCustomerRepository_FindBySpecification(t *testing.T) {
	repo := NewCustomerRepository(openTestDB(t))
	ctx := context.Background()

	lisboa := newTestCustomer(t, "a@example.com", "Lisboa")
	porto := newTestCustomer(t, "b@example.com", "Porto")
	require.NoError(t, repo.Save(ctx, lisboa))
	require.NoError(t, repo.Save(ctx, porto))

	found, err := repo.FindBySpecification(ctx, customer.NewByCitySpecification("LISBOA"))
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, lisboa.ID(), found[0].ID())

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, repo.Delete(ctx, porto))
	assert.ErrorIs(t, repo.Delete(ctx, porto), customer.ErrCustomerNotFound)
}

func TestPizzaRepository(t *testing.T) {
	repo := NewPizzaRepository(openTestDB(t))
	ctx := context.Background()

	margherita := newTestPizza(t, "Margherita", "40.00")
	pepperoni := newTestPizza(t, "Pepperoni", "45.00")
	calabresa := newTestPizza(t, "Calabresa", "42.00")
	for _, p := range []*pizza.Pizza{margherita, pepperoni, calabresa} {
		require.NoError(t, repo.Save(ctx, p))
	}

	require.NoError(t, pepperoni.Update(pizza.Details{
		Name:  "Pepperoni",
		Price: shared.MustParseMoney("47.50"),
		Size:  pizza.SizeLarge,
	}, false))
	require.NoError(t, repo.Save(ctx, pepperoni))

	available, err := repo.FindAvailable(ctx)
	require.NoError(t, err)
	require.Len(t, available, 2)
	assert.Equal(t, "Calabresa", available[0].Name())
	assert.Equal(t, "Margherita", available[1].Name())

	found, err := repo.SearchByName(ctx, "PEPP")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "47.50", found[0].Price().String())
	assert.Equal(t, pizza.SizeLarge, found[0].Size())

	none, err := repo.SearchByName(ctx, "%")
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = repo.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, pizza.ErrPizzaNotFound)
}

func TestPizzaRepository_SubCentPriceIsRoundedOnLoad(t *testing.T) {
	db := openTestDB(t)
	repo := NewPizzaRepository(db)
	ctx := context.Background()

	p := newTestPizza(t, "Legada", "1.00")
	require.NoError(t, repo.Save(ctx, p))
	// 旧数据可能带有超出两位的小数
	require.NoError(t, db.Exec("UPDATE pizzas SET price = ? WHERE id = ?", "1.005", p.ID()).Error)

	loaded, err := repo.FindByID(ctx, p.ID())
	require.NoError(t, err)
	assert.Equal(t, "1.01", loaded.Price().Amount().String())

	var items []*order.Item
	for i := 0; i < 2; i++ {
		item, err := order.NewItem(loaded.ID(), loaded.Name(), 1, loaded.Price())
		require.NoError(t, err)
		items = append(items, item)
	}
	o, err := order.NewOrder("customer-1", "", items)
	require.NoError(t, err)

	sum := shared.ZeroMoney()
	for _, item := range o.Items() {
		sum = sum.Add(shared.MustParseMoney(item.TotalPrice().String()))
	}
	assert.Equal(t, sum.String(), o.TotalAmount().String())
	assert.Equal(t, "2.02", o.TotalAmount().String())
}
