package database

import (
	"gorm.io/driver/mysql"

	"github.com/amoylab/lokal/internal/common/config"
)

// MySQL implements the Database interface using MySQL
type MySQL struct {
	*gormStore
	cfg *config.DatabaseConfig
}

// NewMySQL creates a new MySQL instance
func NewMySQL(cfg *config.DatabaseConfig) (Database, error) {
	store, err := newStore(mysql.Open(cfg.GetDSN()), cfg)
	if err != nil {
		return nil, err
	}
	return &MySQL{gormStore: store, cfg: cfg}, nil
}
