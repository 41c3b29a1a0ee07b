package history

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/amoylab/lokal/internal/common/config"
	"github.com/amoylab/lokal/pkg/metrics"
)

const (
	TypeMemory = "memory"
	TypeRedis  = "redis"
)

// NewStore creates a history store based on configuration
func NewStore(ctx context.Context, logger *zap.Logger, rcfg config.RedisConfig, cfg config.HistoryConfig) (Store, error) {
	logger.Info("Initializing history store", zap.String("type", cfg.Type))
	switch cfg.Type {
	case TypeMemory, "":
		return NewMemoryStore(logger, cfg.Limit), nil
	case TypeRedis:
		return NewRedisStore(ctx, logger, rcfg, cfg)
	default:
		return nil, fmt.Errorf("unsupported history store type: %s", cfg.Type)
	}
}

// Recorder saves entries on behalf of the AI handlers. Failures are logged,
// never returned, so a history outage does not fail the AI call.
type Recorder struct {
	store   Store
	logger  *zap.Logger
	metrics *metrics.Metrics
}

func NewRecorder(store Store, logger *zap.Logger, m *metrics.Metrics) *Recorder {
	return &Recorder{store: store, logger: logger.Named("history"), metrics: m}
}

// Record saves an entry for the owner
func (r *Recorder) Record(ctx context.Context, owner string, typ Type, query string, params map[string]string) {
	if r == nil || owner == "" {
		return
	}
	err := r.store.Save(ctx, owner, Entry{Type: typ, Query: query, Params: params})
	if err != nil {
		r.logger.Warn("failed to save prompt history",
			zap.String("owner", owner), zap.String("type", string(typ)), zap.Error(err))
		return
	}
	r.metrics.PromptSaved(string(typ))
}

// Store returns the underlying store
func (r *Recorder) Store() Store {
	return r.store
}
