package database

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/amoylab/lokal/internal/common/config"
)

// gormStore implements Database on top of any gorm dialector. The driver
// specific constructors only differ in how they open the connection.
type gormStore struct {
	db *gorm.DB
}

func gormConfig(cfg *config.DatabaseConfig) *gorm.Config {
	gc := &gorm.Config{TranslateError: true}
	if !cfg.LogSQL {
		gc.Logger = logger.Default.LogMode(logger.Silent)
	}
	return gc
}

func newStore(dialector gorm.Dialector, cfg *config.DatabaseConfig, prepare ...func(*gorm.DB) error) (*gormStore, error) {
	gormDB, err := gorm.Open(dialector, gormConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	for _, fn := range prepare {
		if err := fn(gormDB); err != nil {
			return nil, err
		}
	}

	if err := gormDB.AutoMigrate(Models()...); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return &gormStore{db: gormDB}, nil
}

// Close closes the database connection
func (s *gormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
