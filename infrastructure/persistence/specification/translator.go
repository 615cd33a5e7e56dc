package specification

import (
	"strings"

	"pizzeria/domain/customer"
	"pizzeria/domain/order"
	"pizzeria/domain/shared"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ConcreteFunc translates one leaf specification type of a domain package.
// ok is false for types it does not know.
type ConcreteFunc[T any] func(spec shared.Specification[T]) (expr clause.Expression, ok bool)

// Translator converts domain specifications to GORM conditions
// DDD principle: Infrastructure layer handles framework-specific concerns
type Translator[T any] struct {
	concrete ConcreteFunc[T]
}

func NewTranslator[T any](concrete ConcreteFunc[T]) *Translator[T] {
	return &Translator[T]{concrete: concrete}
}

// Translate converts a specification tree into a single WHERE expression.
// ok is false when any leaf is unknown; callers then filter in memory with
// IsSatisfiedBy.
func (t *Translator[T]) Translate(spec shared.Specification[T]) (clause.Expression, bool) {
	switch s := spec.(type) {
	case nil:
		return matchAll, true
	case shared.All[T]:
		return matchAll, true
	case shared.AndSpecification[T]:
		left, ok := t.Translate(s.Left)
		if !ok {
			return nil, false
		}
		right, ok := t.Translate(s.Right)
		if !ok {
			return nil, false
		}
		return clause.And(left, right), true
	case shared.OrSpecification[T]:
		left, ok := t.Translate(s.Left)
		if !ok {
			return nil, false
		}
		right, ok := t.Translate(s.Right)
		if !ok {
			return nil, false
		}
		return clause.Or(left, right), true
	case shared.NotSpecification[T]:
		inner, ok := t.Translate(s.Spec)
		if !ok {
			return nil, false
		}
		return clause.Not(inner), true
	}
	return t.concrete(spec)
}

// Scope returns a GORM scope applying the specification, or ok=false.
func (t *Translator[T]) Scope(spec shared.Specification[T]) (func(*gorm.DB) *gorm.DB, bool) {
	expr, ok := t.Translate(spec)
	if !ok {
		return nil, false
	}
	return func(db *gorm.DB) *gorm.DB { return db.Where(expr) }, true
}

var matchAll = clause.Expr{SQL: "1 = 1"}

// OrderTranslator knows the order package's leaf specifications.
var OrderTranslator = NewTranslator(func(spec shared.Specification[*order.Order]) (clause.Expression, bool) {
	switch s := spec.(type) {
	case order.ByCustomerIDSpecification:
		return clause.Eq{Column: "customer_id", Value: s.CustomerID}, true
	case order.ByStatusSpecification:
		return clause.Eq{Column: "status", Value: string(s.Status)}, true
	case order.ByCreatedAtRangeSpecification:
		exprs := []clause.Expression{matchAll}
		if !s.Start.IsZero() {
			exprs = append(exprs, clause.Gte{Column: "created_at", Value: s.Start.UTC()})
		}
		if !s.End.IsZero() {
			exprs = append(exprs, clause.Lte{Column: "created_at", Value: s.End.UTC()})
		}
		return clause.And(exprs...), true
	}
	return nil, false
})

// CustomerTranslator knows the customer package's leaf specifications.
var CustomerTranslator = NewTranslator(func(spec shared.Specification[*customer.Customer]) (clause.Expression, bool) {
	switch s := spec.(type) {
	case customer.ByEmailSpecification:
		return clause.Eq{Column: "email", Value: customer.NormalizeEmail(s.Email)}, true
	case customer.ByCitySpecification:
		return clause.Expr{SQL: "LOWER(city) = ?", Vars: []interface{}{strings.ToLower(s.City)}}, true
	}
	return nil, false
})
