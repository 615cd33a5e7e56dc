package order

import (
	"context"

	"pizzeria/domain/customer"
	"pizzeria/domain/order"
	"pizzeria/domain/pizza"
)

// customerCheckerAdapter 将 customer.Repository 适配为订单领域服务需要的顾客存在性检查。
type customerCheckerAdapter struct {
	customerRepo customer.Repository
}

func (a *customerCheckerAdapter) EnsureCustomerExists(ctx context.Context, customerID string) error {
	_, err := a.customerRepo.FindByID(ctx, customerID)
	return err
}

// catalogAdapter 将 pizza.Repository 适配为订单领域服务的价目查询，始终读取当前价格。
type catalogAdapter struct {
	pizzaRepo pizza.Repository
}

func (a *catalogAdapter) LookupPizza(ctx context.Context, pizzaID string) (order.CatalogEntry, error) {
	p, err := a.pizzaRepo.FindByID(ctx, pizzaID)
	if err != nil {
		return order.CatalogEntry{}, err
	}
	return order.CatalogEntry{
		PizzaID: p.ID(),
		Name:    p.Name(),
		Price:   p.Price(),
	}, nil
}
