// Package postgres is the shared cache backend for deployments where
// several instances should reuse each other's external verdicts.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/ApurboBarua17/Website-status-checker/internal/cache"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS check_cache (
  key        TEXT PRIMARY KEY,
  value      BYTEA NOT NULL,
  expires_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_check_cache_expires ON check_cache (expires_at);
`

type Store struct {
	pool *pgxpool.Pool
	log  *zap.Logger
}

func New(ctx context.Context, dsn string, log *zap.Logger) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}
	ctxPing, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctxPing); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return &Store{pool: pool, log: log}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// EnsureSchema creates the cache table when it does not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// Get reads one entry. Backend errors degrade to a miss: a slow or down
// database must never fail a check.
func (s *Store) Get(ctx context.Context, key string) (cache.Entry, bool) {
	var e cache.Entry
	err := s.pool.QueryRow(ctx,
		`SELECT value, expires_at FROM check_cache WHERE key = $1`, key,
	).Scan(&e.Value, &e.ExpiresAt)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			s.log.Warn("cache_get_error", zap.String("key", key), zap.Error(err))
		}
		return cache.Entry{}, false
	}
	if e.Expired(time.Now()) {
		return cache.Entry{}, false
	}
	return e, true
}

func (s *Store) Put(ctx context.Context, key string, e cache.Entry) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO check_cache (key, value, expires_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (key) DO UPDATE
		   SET value = EXCLUDED.value, expires_at = EXCLUDED.expires_at`,
		key, e.Value, e.ExpiresAt)
	if err != nil {
		return fmt.Errorf("cache put: %w", err)
	}
	return nil
}

var _ cache.Store = (*Store)(nil)
