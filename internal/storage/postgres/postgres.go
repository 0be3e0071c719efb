package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/letsssgooo/wolfpedia/internal/storage"
)

// Storage реализует storage.Storage поверх таблицы ключ-значение в PostgreSQL.
type Storage struct {
	pool *pgxpool.Pool
}

// NewStorage подключается к базе по dsn и создает таблицу, если ее нет.
func NewStorage(ctx context.Context, dsn string) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.ConnectConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	s := &Storage{pool: pool}
	if err = s.Migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return s, nil
}

// Migrate создает таблицу настроек.
func (s *Storage) Migrate(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS kv_settings (
		key        TEXT PRIMARY KEY,
		value      BYTEA NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)
	`

	_, err := s.pool.Exec(ctx, query)
	return err
}

func (s *Storage) Get(ctx context.Context, key string) ([]byte, error) {
	query := `
	SELECT value FROM kv_settings WHERE key = $1
	`

	var value []byte
	err := s.pool.QueryRow(ctx, query, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (s *Storage) Set(ctx context.Context, key string, value []byte) error {
	query := `
	INSERT INTO kv_settings (key, value, updated_at) VALUES ($1, $2, $3)
	ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`

	_, err := s.pool.Exec(ctx, query, key, value, time.Now().UTC())
	return err
}

// Close закрывает пул соединений.
func (s *Storage) Close() {
	s.pool.Close()
}
