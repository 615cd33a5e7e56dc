/*
Domain Service

Core principle: Domain service only reads, does not write
*/
package customer

import (
	"context"
	"errors"

	"pizzeria/domain/shared"
)

// DomainService Customer domain service
type DomainService struct {
	customerRepository Repository
}

// NewDomainService Create customer domain service
func NewDomainService(customerRepo Repository) *DomainService {
	return &DomainService{
		customerRepository: customerRepo,
	}
}

// EnsureEmailAvailable fails with ErrEmailAlreadyExists when another customer
// (any id other than exceptID) already uses the email.
func (s *DomainService) EnsureEmailAvailable(ctx context.Context, email, exceptID string) error {
	existing, err := s.customerRepository.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		return err
	}
	if existing.ID() == exceptID {
		return nil
	}
	return NewEmailAlreadyExistsError(NormalizeEmail(email))
}
