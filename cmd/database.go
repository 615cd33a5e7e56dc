package cmd

import (
	"context"
	"fmt"

	"pizzeria/config"
	"pizzeria/infrastructure/persistence/gormstore"
	"pizzeria/infrastructure/persistence/migrations"
	"pizzeria/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// OpenDatabase connects to the configured SQL backend and brings the schema up to date.
// MySQL uses the goose migrations unless auto_migrate is set; SQLite is always auto-migrated.
func OpenDatabase(ctx context.Context, cfg *config.Config) (*gorm.DB, error) {
	switch cfg.Database.Type {
	case "mysql":
		db, err := gormstore.NewConfig(cfg.Database).Connect()
		if err != nil {
			return nil, err
		}
		if err := gormstore.Ping(ctx, db); err != nil {
			return nil, fmt.Errorf("failed to ping MySQL: %w", err)
		}
		if cfg.Database.AutoMigrate {
			return db, gormstore.AutoMigrate(db)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		if err := migrations.Up(ctx, sqlDB); err != nil {
			return nil, err
		}
		version, _ := migrations.Version(ctx, sqlDB)
		logger.Info("Schema migrated", zap.Int64("version", version))
		return db, nil

	case "sqlite":
		db, err := gormstore.NewConfig(cfg.Database).OpenSQLite()
		if err != nil {
			return nil, err
		}
		return db, gormstore.AutoMigrate(db)

	default:
		return nil, fmt.Errorf("database type %q has no SQL backend", cfg.Database.Type)
	}
}
