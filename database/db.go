package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"procurement-backend/config"
)

var DB *gorm.DB

// Connect opens the shared postgres connection.
func Connect(cfg config.DBConfig) error {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		// FKs are added by AutoMigrate (migrate.go) with ON DELETE CASCADE.
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   logger.Default.LogMode(logger.Warn),
		TranslateError:                           true,
	})
	if err != nil {
		return fmt.Errorf("could not connect to database: %w", err)
	}
	DB = db
	return nil
}
