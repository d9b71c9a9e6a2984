package kv

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresKV keeps the key-value table in postgres for deployments where
// the journal data should outlive the host.
type PostgresKV struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects using databaseURL and ensures the key-value table
// exists.
func OpenPostgres(ctx context.Context, databaseURL string) (*PostgresKV, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	// The store assumes a single active writer, so a small pool suffices.
	config.MaxConns = 4

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS kv_entries (
			key   TEXT PRIMARY KEY,
			value BYTEA NOT NULL
		)
	`)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("create kv table: %w", err)
	}

	return &PostgresKV{pool: pool}, nil
}

// Get returns the value stored under key, with ok false for an absent key.
func (s *PostgresKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := s.pool.QueryRow(ctx, `SELECT value FROM kv_entries WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %q: %w", key, err)
	}
	return value, true, nil
}

// Put stores value under key, replacing any previous value.
func (s *PostgresKV) Put(ctx context.Context, key string, value []byte) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO kv_entries (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("put %q: %w", key, err)
	}
	return nil
}

// Close releases the connection pool.
func (s *PostgresKV) Close() error {
	s.pool.Close()
	return nil
}
