package db

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"sindico-backend/config"
	"sindico-backend/internal/model"
)

// Init initializes the database connection and runs migrations.
// TranslateError is required: the protocol allocation path relies on unique
// index violations surfacing as gorm.ErrDuplicatedKey.
func Init(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute)

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates or updates the schema for all ledger models.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.Condominium{},
		&model.User{},
		&model.Occurrence{},
		&model.StatusHistoryEntry{},
		&model.Attachment{},
		&model.PushSubscription{},
	)
	if err != nil {
		return fmt.Errorf("automigrate failed: %w", err)
	}
	return nil
}
