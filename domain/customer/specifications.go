package customer

import (
	"context"
	"strings"

	"pizzeria/domain/shared"
)

type ByEmailSpecification struct {
	Email string
}

func (spec ByEmailSpecification) IsSatisfiedBy(ctx context.Context, entity *Customer) bool {
	return entity.Email().Value() == NormalizeEmail(spec.Email)
}

type ByCitySpecification struct {
	City string
}

func (spec ByCitySpecification) IsSatisfiedBy(ctx context.Context, entity *Customer) bool {
	return strings.EqualFold(entity.Address().City(), spec.City)
}

func NewByEmailSpecification(email string) shared.Specification[*Customer] {
	return ByEmailSpecification{Email: email}
}

func NewByCitySpecification(city string) shared.Specification[*Customer] {
	return ByCitySpecification{City: city}
}
