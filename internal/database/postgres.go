package database

import (
	"gorm.io/driver/postgres"

	"github.com/amoylab/lokal/internal/common/config"
)

// Postgres implements the Database interface using PostgreSQL
type Postgres struct {
	*gormStore
	cfg *config.DatabaseConfig
}

// NewPostgres creates a new Postgres instance
func NewPostgres(cfg *config.DatabaseConfig) (Database, error) {
	store, err := newStore(postgres.Open(cfg.GetDSN()), cfg)
	if err != nil {
		return nil, err
	}
	return &Postgres{gormStore: store, cfg: cfg}, nil
}
