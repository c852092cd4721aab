package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/FACorreiaa/go-trip-itinerary/internal/types"
)

var _ Store = (*PostgresStore)(nil)

// DB is the subset of *pgxpool.Pool the store needs.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

const (
	selectEntrySQL = `SELECT payload, created_at FROM itinerary_cache WHERE fingerprint = $1`
	upsertEntrySQL = `
		INSERT INTO itinerary_cache (fingerprint, entry_id, destination, payload, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (fingerprint) DO UPDATE
		SET entry_id = EXCLUDED.entry_id,
		    destination = EXCLUDED.destination,
		    payload = EXCLUDED.payload,
		    created_at = EXCLUDED.created_at`
	deleteEntrySQL = `DELETE FROM itinerary_cache WHERE fingerprint = $1`
	flushSQL       = `DELETE FROM itinerary_cache`
)

// PostgresStore shares entries between replicas through an unlogged table.
// Stale rows are deleted when they are read.
type PostgresStore struct {
	db     DB
	ttl    time.Duration
	now    Clock
	logger *slog.Logger
}

func NewPostgresStore(db DB, ttl time.Duration, logger *slog.Logger) *PostgresStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &PostgresStore{
		db:     db,
		ttl:    ttl,
		now:    time.Now,
		logger: logger.With(slog.String("component", "postgres_cache")),
	}
}

func (s *PostgresStore) Get(ctx context.Context, key string) (*Entry, bool) {
	var (
		payload   []byte
		createdAt time.Time
	)
	err := s.db.QueryRow(ctx, selectEntrySQL, key).Scan(&payload, &createdAt)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			s.logger.WarnContext(ctx, "Cache read failed", slog.String("key", key), slog.Any("error", err))
		}
		return nil, false
	}

	entry := Entry{CreatedAt: createdAt}
	if err = json.Unmarshal(payload, &entry.Payload); err != nil {
		s.logger.WarnContext(ctx, "Discarding undecodable cache entry", slog.String("key", key), slog.Any("error", err))
		s.delete(ctx, key)
		return nil, false
	}
	if !entry.Fresh(s.now(), s.ttl) {
		s.delete(ctx, key)
		return nil, false
	}
	return &entry, true
}

func (s *PostgresStore) delete(ctx context.Context, key string) {
	if _, err := s.db.Exec(ctx, deleteEntrySQL, key); err != nil {
		s.logger.WarnContext(ctx, "Failed to delete cache entry", slog.String("key", key), slog.Any("error", err))
	}
}

func (s *PostgresStore) Set(ctx context.Context, key string, payload types.ItineraryResponse) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	if _, err = s.db.Exec(ctx, upsertEntrySQL, key, uuid.New(), payload.Destination, data, s.now().UTC()); err != nil {
		return fmt.Errorf("store cache entry: %w", err)
	}
	return nil
}

func (s *PostgresStore) Flush(ctx context.Context) error {
	tag, err := s.db.Exec(ctx, flushSQL)
	if err != nil {
		return fmt.Errorf("flush cache: %w", err)
	}
	s.logger.InfoContext(ctx, "Cache flushed", slog.Int64("rows", tag.RowsAffected()))
	return nil
}

func (s *PostgresStore) Close() error {
	s.db.Close()
	return nil
}
