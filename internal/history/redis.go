package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/amoylab/lokal/internal/common/config"
)

// RedisStore implements Store with one capped redis list per owner
type RedisStore struct {
	logger *zap.Logger
	client redis.UniversalClient
	prefix string
	limit  int
	ttl    time.Duration
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore creates a new Redis-based history store
func NewRedisStore(ctx context.Context, logger *zap.Logger, rcfg config.RedisConfig, cfg config.HistoryConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     rcfg.Addr,
		Username: rcfg.Username,
		Password: rcfg.Password,
		DB:       rcfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return newRedisStore(logger, client, cfg), nil
}

func newRedisStore(logger *zap.Logger, client redis.UniversalClient, cfg config.HistoryConfig) *RedisStore {
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "lokal:history"
	}
	limit := cfg.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &RedisStore{
		logger: logger.Named("history.store.redis"),
		client: client,
		prefix: prefix,
		limit:  limit,
		ttl:    cfg.TTL,
	}
}

func (s *RedisStore) key(owner string) string {
	return s.prefix + ":" + owner
}

// Save implements Store.Save
func (s *RedisStore) Save(ctx context.Context, owner string, entry Entry) error {
	if err := normalize(owner, &entry); err != nil {
		return err
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal history entry: %w", err)
	}

	key := s.key(owner)
	pipe := s.client.TxPipeline()
	pipe.LPush(ctx, key, data)
	pipe.LTrim(ctx, key, 0, int64(s.limit-1))
	if s.ttl > 0 {
		pipe.Expire(ctx, key, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save history entry: %w", err)
	}
	return nil
}

// List implements Store.List
func (s *RedisStore) List(ctx context.Context, owner string, typ Type) ([]Entry, error) {
	raw, err := s.client.LRange(ctx, s.key(owner), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}

	entries := make([]Entry, 0, len(raw))
	for _, item := range raw {
		var e Entry
		if err := json.Unmarshal([]byte(item), &e); err != nil {
			s.logger.Warn("skipping malformed history entry",
				zap.String("owner", owner), zap.Error(err))
			continue
		}
		entries = append(entries, e)
	}
	return filter(entries, typ), nil
}

// Clear implements Store.Clear
func (s *RedisStore) Clear(ctx context.Context, owner string) error {
	if err := s.client.Del(ctx, s.key(owner)).Err(); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

// Close implements Store.Close
func (s *RedisStore) Close() error {
	return s.client.Close()
}
