package prefs

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/amoylab/lokal/internal/common/config"
)

const (
	TypeMemory = "memory"
	TypeRedis  = "redis"
)

// NewStore creates a settings store based on configuration
func NewStore(ctx context.Context, logger *zap.Logger, rcfg config.RedisConfig, cfg config.PrefsConfig) (Store, error) {
	logger.Info("Initializing settings store", zap.String("type", cfg.Type))
	switch cfg.Type {
	case TypeMemory, "":
		return NewMemoryStore(logger), nil
	case TypeRedis:
		return NewRedisStore(ctx, logger, rcfg, cfg)
	default:
		return nil, fmt.Errorf("unsupported prefs store type: %s", cfg.Type)
	}
}
