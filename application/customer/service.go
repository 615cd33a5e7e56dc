// Package customer 顾客应用服务：注册、资料维护与删除。
package customer

import (
	"context"

	"pizzeria/domain/customer"
	"pizzeria/domain/order"
	"pizzeria/domain/shared"
	"pizzeria/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
)

const tracerName = "application/customer"

type ApplicationService struct {
	customerRepo  customer.Repository
	orderRepo     order.Repository
	domainService *customer.DomainService
	uowFactory    shared.UnitOfWorkFactory
}

func NewApplicationService(customerRepo customer.Repository, orderRepo order.Repository, uowFactory shared.UnitOfWorkFactory) *ApplicationService {
	return &ApplicationService{
		customerRepo:  customerRepo,
		orderRepo:     orderRepo,
		domainService: customer.NewDomainService(customerRepo),
		uowFactory:    uowFactory,
	}
}

// CreateCustomer 邮箱已被占用时返回 ErrEmailAlreadyExists
func (s *ApplicationService) CreateCustomer(ctx context.Context, req CustomerRequest) (resp *CustomerResponse, err error) {
	ctx, span := tracing.Start(ctx, tracerName, "CustomerService.CreateCustomer")
	defer func() { tracing.End(span, err) }()

	var c *customer.Customer
	uow := s.uowFactory.New()
	err = uow.Execute(ctx, func(ctx context.Context) error {
		var err error
		c, err = customer.NewCustomer(req.toProfile())
		if err != nil {
			return err
		}
		if err := s.domainService.EnsureEmailAvailable(ctx, c.Email().Value(), ""); err != nil {
			return err
		}
		if err := s.customerRepo.Save(ctx, c); err != nil {
			return err
		}
		uow.RegisterNew(c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toCustomerResponse(c), nil
}

func (s *ApplicationService) GetCustomer(ctx context.Context, id string) (*CustomerResponse, error) {
	c, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toCustomerResponse(c), nil
}

func (s *ApplicationService) GetCustomerByEmail(ctx context.Context, email string) (*CustomerResponse, error) {
	c, err := s.customerRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return toCustomerResponse(c), nil
}

// ListCustomers 按姓名排序
func (s *ApplicationService) ListCustomers(ctx context.Context) ([]*CustomerResponse, error) {
	customers, err := s.customerRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]*CustomerResponse, len(customers))
	for i, c := range customers {
		responses[i] = toCustomerResponse(c)
	}
	return responses, nil
}

// UpdateCustomer replaces the profile. Changing to an email another customer
// uses is a conflict.
func (s *ApplicationService) UpdateCustomer(ctx context.Context, id string, req CustomerRequest) (resp *CustomerResponse, err error) {
	ctx, span := tracing.Start(ctx, tracerName, "CustomerService.UpdateCustomer", attribute.String("customer.id", id))
	defer func() { tracing.End(span, err) }()

	var c *customer.Customer
	uow := s.uowFactory.New()
	err = uow.Execute(ctx, func(ctx context.Context) error {
		var err error
		c, err = s.customerRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := c.UpdateProfile(req.toProfile()); err != nil {
			return err
		}
		if err := s.domainService.EnsureEmailAvailable(ctx, c.Email().Value(), c.ID()); err != nil {
			return err
		}
		if err := s.customerRepo.Save(ctx, c); err != nil {
			return err
		}
		uow.RegisterDirty(c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toCustomerResponse(c), nil
}

// DeleteCustomer 仍有订单的顾客不能删除
func (s *ApplicationService) DeleteCustomer(ctx context.Context, id string) (err error) {
	ctx, span := tracing.Start(ctx, tracerName, "CustomerService.DeleteCustomer", attribute.String("customer.id", id))
	defer func() { tracing.End(span, err) }()

	uow := s.uowFactory.New()
	return uow.Execute(ctx, func(ctx context.Context) error {
		c, err := s.customerRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		count, err := s.orderRepo.CountByCustomerID(ctx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return customer.NewCustomerHasOrdersError(id, count)
		}

		c.MarkDeleted()
		if err := s.customerRepo.Delete(ctx, c); err != nil {
			return err
		}
		uow.RegisterRemoved(c)
		return nil
	})
}
