// Package pizza 菜单应用服务。价格修改不影响已下订单：订单项保存的是下单时的快照。
package pizza

import (
	"context"

	"pizzeria/domain/pizza"
	"pizzeria/domain/shared"
	"pizzeria/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
)

const tracerName = "application/pizza"

type ApplicationService struct {
	pizzaRepo  pizza.Repository
	uowFactory shared.UnitOfWorkFactory
}

func NewApplicationService(pizzaRepo pizza.Repository, uowFactory shared.UnitOfWorkFactory) *ApplicationService {
	return &ApplicationService{pizzaRepo: pizzaRepo, uowFactory: uowFactory}
}

func (s *ApplicationService) CreatePizza(ctx context.Context, req PizzaRequest) (resp *PizzaResponse, err error) {
	ctx, span := tracing.Start(ctx, tracerName, "PizzaService.CreatePizza")
	defer func() { tracing.End(span, err) }()

	details, err := req.toDetails()
	if err != nil {
		return nil, err
	}

	var p *pizza.Pizza
	uow := s.uowFactory.New()
	err = uow.Execute(ctx, func(ctx context.Context) error {
		var err error
		p, err = pizza.NewPizza(details)
		if err != nil {
			return err
		}
		if req.Available != nil && !*req.Available {
			if err := p.Update(details, false); err != nil {
				return err
			}
		}
		if err := s.pizzaRepo.Save(ctx, p); err != nil {
			return err
		}
		uow.RegisterNew(p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toPizzaResponse(p), nil
}

func (s *ApplicationService) GetPizza(ctx context.Context, id string) (*PizzaResponse, error) {
	p, err := s.pizzaRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toPizzaResponse(p), nil
}

func (s *ApplicationService) ListAvailablePizzas(ctx context.Context) ([]*PizzaResponse, error) {
	pizzas, err := s.pizzaRepo.FindAvailable(ctx)
	if err != nil {
		return nil, err
	}
	return toPizzaResponses(pizzas), nil
}

func (s *ApplicationService) SearchPizzas(ctx context.Context, name string) ([]*PizzaResponse, error) {
	pizzas, err := s.pizzaRepo.SearchByName(ctx, name)
	if err != nil {
		return nil, err
	}
	return toPizzaResponses(pizzas), nil
}

// UpdatePizza replaces all editable fields. Available defaults to the current value when omitted.
func (s *ApplicationService) UpdatePizza(ctx context.Context, id string, req PizzaRequest) (resp *PizzaResponse, err error) {
	ctx, span := tracing.Start(ctx, tracerName, "PizzaService.UpdatePizza", attribute.String("pizza.id", id))
	defer func() { tracing.End(span, err) }()

	details, err := req.toDetails()
	if err != nil {
		return nil, err
	}

	var p *pizza.Pizza
	uow := s.uowFactory.New()
	err = uow.Execute(ctx, func(ctx context.Context) error {
		var err error
		p, err = s.pizzaRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		available := p.Available()
		if req.Available != nil {
			available = *req.Available
		}
		if err := p.Update(details, available); err != nil {
			return err
		}
		if err := s.pizzaRepo.Save(ctx, p); err != nil {
			return err
		}
		uow.RegisterDirty(p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toPizzaResponse(p), nil
}

func (s *ApplicationService) DeletePizza(ctx context.Context, id string) (err error) {
	ctx, span := tracing.Start(ctx, tracerName, "PizzaService.DeletePizza", attribute.String("pizza.id", id))
	defer func() { tracing.End(span, err) }()

	uow := s.uowFactory.New()
	return uow.Execute(ctx, func(ctx context.Context) error {
		p, err := s.pizzaRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		p.MarkDeleted()
		if err := s.pizzaRepo.Delete(ctx, p); err != nil {
			return err
		}
		uow.RegisterRemoved(p)
		return nil
	})
}
