package specification

import (
	"context"
	"testing"
	"time"

	"pizzeria/domain/order"
	"pizzeria/domain/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type unknownSpec struct{}

func (unknownSpec) IsSatisfiedBy(context.Context, *order.Order) bool { return true }

func dryRunSQL(t *testing.T, spec shared.Specification[*order.Order]) string {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{DryRun: true})
	require.NoError(t, err)

	scope, ok := OrderTranslator.Scope(spec)
	require.True(t, ok)
	var rows []map[string]interface{}
	stmt := db.Table("orders").Scopes(scope).Find(&rows).Statement
	return stmt.SQL.String()
}

func TestOrderTranslator(t *testing.T) {
	sql := dryRunSQL(t, shared.And(
		order.NewByCustomerIDSpecification("c1"),
		shared.Not(order.NewByStatusSpecification(order.StatusCancelled)),
	))
	assert.Contains(t, sql, "`customer_id` = ?")
	assert.Contains(t, sql, "`status` <> ?")

	sql = dryRunSQL(t, shared.Or(
		order.NewByStatusSpecification(order.StatusReady),
		order.NewByCreatedAtRangeSpecification(time.Now().Add(-time.Hour), time.Time{}),
	))
	assert.Contains(t, sql, " OR ")
	assert.Contains(t, sql, "`created_at` >= ?")
	assert.NotContains(t, sql, "`created_at` <= ?")
}

func TestTranslatorRejectsUnknownLeaf(t *testing.T) {
	_, ok := OrderTranslator.Translate(shared.And[*order.Order](order.NewByCustomerIDSpecification("c1"), unknownSpec{}))
	assert.False(t, ok)

	_, ok = OrderTranslator.Translate(shared.All[*order.Order]{})
	assert.True(t, ok)
}
