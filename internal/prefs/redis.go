package prefs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/amoylab/lokal/internal/common/config"
)

// RedisStore keeps settings as JSON values and broadcasts changes on a
// pub/sub topic so every replica can notify its own subscribers.
type RedisStore struct {
	logger *zap.Logger
	client redis.UniversalClient
	pubsub *redis.PubSub
	prefix string
	topic  string
	hub    *hub
	cancel context.CancelFunc
}

var _ Store = (*RedisStore)(nil)

type update struct {
	Owner    string   `json:"owner"`
	Settings Settings `json:"settings"`
}

// NewRedisStore creates a new Redis-based settings store
func NewRedisStore(ctx context.Context, logger *zap.Logger, rcfg config.RedisConfig, cfg config.PrefsConfig) (*RedisStore, error) {
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

	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "lokal:settings"
	}
	topic := cfg.Topic
	if topic == "" {
		topic = "lokal:settings:updates"
	}

	pubsub := client.Subscribe(ctx, topic)
	// wait for the subscription so updates published right after construction are not lost
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		_ = client.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", topic, err)
	}

	loopCtx, cancel := context.WithCancel(context.Background())
	s := &RedisStore{
		logger: logger.Named("prefs.store.redis"),
		client: client,
		pubsub: pubsub,
		prefix: prefix,
		topic:  topic,
		hub:    newHub(),
		cancel: cancel,
	}
	go s.handleUpdates(loopCtx)
	return s, nil
}

func (s *RedisStore) key(owner string) string {
	return s.prefix + ":" + owner
}

func (s *RedisStore) handleUpdates(ctx context.Context) {
	ch := s.pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var u update
			if err := json.Unmarshal([]byte(msg.Payload), &u); err != nil {
				s.logger.Error("failed to unmarshal settings update", zap.Error(err))
				continue
			}
			s.hub.publish(u.Owner, u.Settings)
		}
	}
}

// Get implements Store.Get
func (s *RedisStore) Get(ctx context.Context, owner string) (Settings, error) {
	if owner == "" {
		return Settings{}, ErrOwnerRequired
	}
	data, err := s.client.Get(ctx, s.key(owner)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Defaults(), nil
		}
		return Settings{}, fmt.Errorf("failed to get settings from Redis: %w", err)
	}
	v := Defaults()
	if err := json.Unmarshal(data, &v); err != nil {
		return Settings{}, fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	return v, nil
}

// Set implements Store.Set
func (s *RedisStore) Set(ctx context.Context, owner string, v Settings) error {
	if owner == "" {
		return ErrOwnerRequired
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := s.client.Set(ctx, s.key(owner), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to store settings in Redis: %w", err)
	}

	payload, err := json.Marshal(update{Owner: owner, Settings: v})
	if err != nil {
		return fmt.Errorf("failed to marshal settings update: %w", err)
	}
	if err := s.client.Publish(ctx, s.topic, payload).Err(); err != nil {
		s.logger.Warn("failed to publish settings update",
			zap.String("owner", owner), zap.Error(err))
	}
	return nil
}

// Subscribe implements Store.Subscribe
func (s *RedisStore) Subscribe(ctx context.Context, owner string) (<-chan Settings, error) {
	if owner == "" {
		return nil, ErrOwnerRequired
	}
	return s.hub.subscribe(ctx, owner), nil
}

// Close implements Store.Close
func (s *RedisStore) Close() error {
	s.cancel()
	s.hub.close()
	if err := s.pubsub.Close(); err != nil {
		s.logger.Warn("failed to close settings subscription", zap.Error(err))
	}
	return s.client.Close()
}
