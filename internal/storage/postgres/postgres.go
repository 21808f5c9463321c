// Package postgres provides a PostgreSQL-backed implementation of the
// storage.Store interface using pgx.
//
// Proposal updates lock the row with SELECT ... FOR UPDATE for the duration
// of the read-modify-write.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ejfii/beginners-luck-sub000/internal/storage"
)

var _ storage.Store = (*PostgresStore)(nil)

// PostgresStore implements storage.Store on a pgx connection pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// New connects to dsn and applies the schema.
func New(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// Close releases the pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    display_name TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS negotiations (
    id TEXT PRIMARY KEY,
    owner_id TEXT NOT NULL,
    title TEXT NOT NULL,
    plaintiff TEXT NOT NULL DEFAULT '',
    defendant TEXT NOT NULL DEFAULT '',
    medical_specials DOUBLE PRECISION,
    economic_damages DOUBLE PRECISION,
    non_economic_damages DOUBLE PRECISION,
    policy_limit DOUBLE PRECISION,
    liability_percentage DOUBLE PRECISION,
    jury_damages_likelihood DOUBLE PRECISION,
    created_at TIMESTAMPTZ NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS moves (
    id TEXT PRIMARY KEY,
    negotiation_id TEXT NOT NULL REFERENCES negotiations(id) ON DELETE CASCADE,
    party TEXT NOT NULL,
    type TEXT NOT NULL,
    amount DOUBLE PRECISION NOT NULL,
    timestamp TIMESTAMPTZ NOT NULL,
    notes TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS bracket_proposals (
    id TEXT PRIMARY KEY,
    negotiation_id TEXT NOT NULL REFERENCES negotiations(id) ON DELETE CASCADE,
    plaintiff_amount DOUBLE PRECISION NOT NULL,
    defendant_amount DOUBLE PRECISION NOT NULL,
    proposed_by TEXT NOT NULL,
    status TEXT NOT NULL,
    notes TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL,
    version BIGINT NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS mediator_proposals (
    id TEXT PRIMARY KEY,
    negotiation_id TEXT NOT NULL UNIQUE REFERENCES negotiations(id) ON DELETE CASCADE,
    amount DOUBLE PRECISION NOT NULL,
    deadline TIMESTAMPTZ NOT NULL,
    plaintiff_response TEXT,
    defendant_response TEXT,
    status TEXT NOT NULL,
    notes TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL,
    version BIGINT NOT NULL DEFAULT 1
);

CREATE INDEX IF NOT EXISTS idx_negotiations_owner_id ON negotiations(owner_id);
CREATE INDEX IF NOT EXISTS idx_moves_negotiation_id ON moves(negotiation_id, timestamp);
CREATE INDEX IF NOT EXISTS idx_bracket_proposals_negotiation_id ON bracket_proposals(negotiation_id, created_at);
CREATE INDEX IF NOT EXISTS idx_mediator_proposals_status ON mediator_proposals(status, deadline);
`

func notFound(err error, what, id string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %s %s", storage.ErrNotFound, what, id)
	}
	return fmt.Errorf("postgres: get %s: %w", what, err)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func requireAffected(tag pgconn.CommandTag, what, id string) error {
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s %s", storage.ErrNotFound, what, id)
	}
	return nil
}
