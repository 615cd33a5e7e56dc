package gormstore

import (
	"fmt"

	"pizzeria/infrastructure/persistence/gormstore/po"

	"gorm.io/gorm"
)

// AutoMigrate creates or updates all tables from the persistence objects.
// Used for SQLite and local development; MySQL deployments run the goose migrations.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&po.CustomerPO{},
		&po.PizzaPO{},
		&po.OrderPO{},
		&po.OrderItemPO{},
		&po.OutboxEventPO{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
