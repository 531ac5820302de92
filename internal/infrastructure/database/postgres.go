package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/you/passwordless/internal/infrastructure/repositories"
)

// Open creates a new database connection. TranslateError is required so the
// partial unique index on active token keys surfaces as gorm.ErrDuplicatedKey
// instead of a driver-specific error.
func Open(dsn string) (*gorm.DB, error) {
	config := &gorm.Config{
		TranslateError: true,
	}

	return gorm.Open(postgres.Open(dsn), config)
}

// AutoMigrate performs database migration for all required tables
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&repositories.DBUser{}, &repositories.DBCallbackToken{}); err != nil {
		return fmt.Errorf("failed to migrate tables: %w", err)
	}
	return nil
}
