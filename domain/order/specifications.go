package order

import (
	"context"
	"sort"
	"time"

	"pizzeria/domain/shared"
)

// ByCustomerIDSpecification filters orders by customer ID
type ByCustomerIDSpecification struct {
	CustomerID string
}

func (spec ByCustomerIDSpecification) IsSatisfiedBy(ctx context.Context, entity *Order) bool {
	return entity.CustomerID() == spec.CustomerID
}

// ByStatusSpecification filters orders by status
type ByStatusSpecification struct {
	Status Status
}

func (spec ByStatusSpecification) IsSatisfiedBy(ctx context.Context, entity *Order) bool {
	return entity.Status() == spec.Status
}

// ByCreatedAtRangeSpecification filters orders by creation time, inclusive on
// both ends. A zero bound is ignored.
type ByCreatedAtRangeSpecification struct {
	Start time.Time
	End   time.Time
}

func (spec ByCreatedAtRangeSpecification) IsSatisfiedBy(ctx context.Context, entity *Order) bool {
	createdAt := entity.CreatedAt()

	if !spec.Start.IsZero() && createdAt.Before(spec.Start) {
		return false
	}
	if !spec.End.IsZero() && createdAt.After(spec.End) {
		return false
	}
	return true
}

func NewByCustomerIDSpecification(customerID string) shared.Specification[*Order] {
	return ByCustomerIDSpecification{CustomerID: customerID}
}

func NewByStatusSpecification(status Status) shared.Specification[*Order] {
	return ByStatusSpecification{Status: status}
}

func NewByCreatedAtRangeSpecification(start, end time.Time) shared.Specification[*Order] {
	return ByCreatedAtRangeSpecification{Start: start, End: end}
}

// SortByCreatedAt orders by creation time ascending, then id, in place.
func SortByCreatedAt(orders []*Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		if orders[i].CreatedAt().Equal(orders[j].CreatedAt()) {
			return orders[i].ID() < orders[j].ID()
		}
		return orders[i].CreatedAt().Before(orders[j].CreatedAt())
	})
}
