package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/FACorreiaa/go-trip-itinerary/internal/types"
)

var _ Store = (*RedisStore)(nil)

type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
	TTL       time.Duration
}

// RedisStore shares entries between replicas. Redis expires keys after TTL;
// CreatedAt is still checked on read so both backends agree on freshness.
type RedisStore struct {
	client *redis.Client
	cfg    RedisConfig
	now    Clock
	logger *slog.Logger
}

func NewRedisStore(ctx context.Context, cfg RedisConfig, logger *slog.Logger) (*RedisStore, error) {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}

	return &RedisStore{
		client: client,
		cfg:    cfg,
		now:    time.Now,
		logger: logger.With(slog.String("component", "redis_cache")),
	}, nil
}

func (s *RedisStore) key(k string) string {
	return s.cfg.KeyPrefix + k
}

func (s *RedisStore) Get(ctx context.Context, key string) (*Entry, bool) {
	data, err := s.client.Get(ctx, s.key(key)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.WarnContext(ctx, "Cache read failed", slog.String("key", key), slog.Any("error", err))
		}
		return nil, false
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		s.logger.WarnContext(ctx, "Discarding undecodable cache entry", slog.String("key", key), slog.Any("error", err))
		s.client.Del(ctx, s.key(key))
		return nil, false
	}
	if !entry.Fresh(s.now(), s.cfg.TTL) {
		return nil, false
	}
	return &entry, true
}

func (s *RedisStore) Set(ctx context.Context, key string, payload types.ItineraryResponse) error {
	data, err := json.Marshal(Entry{Payload: payload, CreatedAt: s.now()})
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	return s.client.Set(ctx, s.key(key), data, s.cfg.TTL).Err()
}

// Flush removes only this store's keys, leaving the rest of the database alone.
func (s *RedisStore) Flush(ctx context.Context) error {
	iter := s.client.Scan(ctx, 0, s.cfg.KeyPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan cache keys: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
