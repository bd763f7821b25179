// Package store is the gorm-backed data access layer. DATABASE_URL decides
// the driver: Postgres for postgres:// URLs and key=value DSNs, SQLite for
// plain file paths.
package store

import (
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Store struct {
	db *gorm.DB
}

// Open connects to the database selected by url.
func Open(url string) (*Store, error) {
	var dialector gorm.Dialector
	if isPostgresURL(url) {
		dialector = postgres.Open(url)
	} else {
		dialector = sqlite.Open(url)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	return &Store{db: db}, nil
}

func isPostgresURL(url string) bool {
	return strings.HasPrefix(url, "postgres://") ||
		strings.HasPrefix(url, "postgresql://") ||
		strings.Contains(url, "host=")
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// AutoMigrate creates or updates the schema for all models.
func (s *Store) AutoMigrate() error {
	err := s.db.AutoMigrate(
		&User{},
		&Stock{},
		&Order{},
		&Holding{},
		&WatchlistItem{},
		&PriceAlert{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate schema: %w", err)
	}
	return nil
}

// Transaction runs fn against a transactional store. fn returning an error
// rolls everything back.
func (s *Store) Transaction(fn func(tx *Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}
