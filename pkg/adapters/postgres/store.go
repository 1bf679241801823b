// Package postgres stores the board document in a single-row JSONB table.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/kanban/pkg/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS kanban_board (
	id         SMALLINT PRIMARY KEY CHECK (id = 1),
	data       JSONB       NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// Store implements ports.BoardStore on PostgreSQL.
type Store struct {
	pool  *pgxpool.Pool
	owned bool
}

// Connect opens a pool for dsn, verifies it and ensures the schema.
func Connect(ctx context.Context, dsn string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("pg parse config: %w", err)
	}
	cfg.MaxConns = 4
	cfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("pg connect: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg ping: %w", err)
	}

	s := &Store{pool: pool, owned: true}
	if err := s.Migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an existing pool. The caller keeps ownership of it.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Migrate creates the board table if needed.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("pg migrate: %w", err)
	}
	return nil
}

// Load returns the stored document.
func (s *Store) Load(ctx context.Context) ([]byte, error) {
	var data []byte
	err := s.pool.QueryRow(ctx, `SELECT data::text FROM kanban_board WHERE id = 1`).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrBoardNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("pg load board: %w", err)
	}
	return data, nil
}

// Save upserts the board row.
func (s *Store) Save(ctx context.Context, data []byte) error {
	const q = `
INSERT INTO kanban_board (id, data, updated_at) VALUES (1, $1::jsonb, now())
ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`
	if _, err := s.pool.Exec(ctx, q, string(data)); err != nil {
		return fmt.Errorf("pg save board: %w", err)
	}
	return nil
}

// Clear deletes the board row.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM kanban_board WHERE id = 1`); err != nil {
		return fmt.Errorf("pg clear board: %w", err)
	}
	return nil
}

// Close releases the pool when the store opened it.
func (s *Store) Close() error {
	if s.owned {
		s.pool.Close()
	}
	return nil
}
