package sqlite

import "github.com/jmoiron/sqlx"

// schema sets up the database. It runs on startup and is idempotent.
// Timestamps are INTEGER unix nanoseconds; money is REAL dollars.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    display_name TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS negotiations (
    id TEXT PRIMARY KEY,
    owner_id TEXT NOT NULL,
    title TEXT NOT NULL,
    plaintiff TEXT NOT NULL DEFAULT '',
    defendant TEXT NOT NULL DEFAULT '',
    medical_specials REAL,
    economic_damages REAL,
    non_economic_damages REAL,
    policy_limit REAL,
    liability_percentage REAL,
    jury_damages_likelihood REAL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS moves (
    id TEXT PRIMARY KEY,
    negotiation_id TEXT NOT NULL,
    party TEXT NOT NULL,
    type TEXT NOT NULL,
    amount REAL NOT NULL,
    timestamp INTEGER NOT NULL,
    notes TEXT NOT NULL DEFAULT '',
    FOREIGN KEY (negotiation_id) REFERENCES negotiations(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS bracket_proposals (
    id TEXT PRIMARY KEY,
    negotiation_id TEXT NOT NULL,
    plaintiff_amount REAL NOT NULL,
    defendant_amount REAL NOT NULL,
    proposed_by TEXT NOT NULL,
    status TEXT NOT NULL,
    notes TEXT NOT NULL DEFAULT '',
    created_at INTEGER NOT NULL,
    version INTEGER NOT NULL DEFAULT 1,
    FOREIGN KEY (negotiation_id) REFERENCES negotiations(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS mediator_proposals (
    id TEXT PRIMARY KEY,
    negotiation_id TEXT NOT NULL UNIQUE,
    amount REAL NOT NULL,
    deadline INTEGER NOT NULL,
    plaintiff_response TEXT,
    defendant_response TEXT,
    status TEXT NOT NULL,
    notes TEXT NOT NULL DEFAULT '',
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL,
    version INTEGER NOT NULL DEFAULT 1,
    FOREIGN KEY (negotiation_id) REFERENCES negotiations(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_negotiations_owner_id ON negotiations(owner_id);
CREATE INDEX IF NOT EXISTS idx_moves_negotiation_id ON moves(negotiation_id, timestamp);
CREATE INDEX IF NOT EXISTS idx_bracket_proposals_negotiation_id ON bracket_proposals(negotiation_id, created_at);
CREATE INDEX IF NOT EXISTS idx_mediator_proposals_status ON mediator_proposals(status, deadline);
`

// runMigrations executes the schema setup.
func runMigrations(db *sqlx.DB) error {
	_, err := db.Exec(schema)
	return err
}
