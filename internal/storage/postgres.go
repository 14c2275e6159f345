package storage

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// PostgresKV stores values in a two-column key/value table.
type PostgresKV struct {
	pool  *pgxpool.Pool
	table string
}

// NewPostgresKV opens a connection pool and creates the table if it is missing.
func NewPostgresKV(ctx context.Context, url, table string) (*PostgresKV, error) {
	if !tableNamePattern.MatchString(table) {
		return nil, fmt.Errorf("invalid postgres table name %q", table)
	}

	poolConfig, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parsing postgres url: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}

	create := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`, table)
	if _, err := pool.Exec(ctx, create); err != nil {
		pool.Close()
		return nil, fmt.Errorf("creating table %s: %w", table, err)
	}

	return &PostgresKV{pool: pool, table: table}, nil
}

// Get implements KV.
func (p *PostgresKV) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := p.pool.QueryRow(ctx, fmt.Sprintf(`SELECT value FROM %s WHERE key = $1`, p.table), key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("postgres get %s: %w", key, err)
	}
	return value, true, nil
}

// Set implements KV.
func (p *PostgresKV) Set(ctx context.Context, key string, value string) error {
	query := fmt.Sprintf(`INSERT INTO %s (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`, p.table)
	if _, err := p.pool.Exec(ctx, query, key, value); err != nil {
		return fmt.Errorf("postgres set %s: %w", key, err)
	}
	return nil
}

// Close releases the pool.
func (p *PostgresKV) Close() error {
	p.pool.Close()
	return nil
}
