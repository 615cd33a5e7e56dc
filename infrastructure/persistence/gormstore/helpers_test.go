package gormstore

import (
	"testing"

	"pizzeria/domain/customer"
	"pizzeria/domain/order"
	"pizzeria/domain/pizza"
	"pizzeria/domain/shared"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// openTestDB 每个测试独立的内存 SQLite
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	return openTestDBWith(t, &Config{LogLevel: "silent", IgnoreRecordNotFound: true})
}

func openTestDBWith(t *testing.T, cfg *Config) *gorm.DB {
	t.Helper()
	db, err := cfg.OpenSQLite()
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))
	t.Cleanup(func() { _ = Close(db) })
	return db
}

func newTestOrder(t *testing.T, customerID string, prices ...string) *order.Order {
	t.Helper()
	items := make([]*order.Item, 0, len(prices))
	for i, price := range prices {
		item, err := order.NewItem("pizza-"+price, "Pizza "+price, i+1, shared.MustParseMoney(price))
		require.NoError(t, err)
		items = append(items, item)
	}
	o, err := order.NewOrder(customerID, "", items)
	require.NoError(t, err)
	return o
}

func newTestCustomer(t *testing.T, email, city string) *customer.Customer {
	t.Helper()
	c, err := customer.NewCustomer(customer.Profile{
		Name:    "Customer " + email,
		Email:   email,
		Phone:   "11999990000",
		Address: "Rua A, 1",
		City:    city,
	})
	require.NoError(t, err)
	return c
}

func newTestPizza(t *testing.T, name, price string) *pizza.Pizza {
	t.Helper()
	p, err := pizza.NewPizza(pizza.Details{
		Name:  name,
		Price: shared.MustParseMoney(price),
		Size:  pizza.SizeMedium,
	})
	require.NoError(t, err)
	return p
}
