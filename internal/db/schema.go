package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema. Enum and range invariants of the
// request entity are mirrored as CHECK constraints so the database rejects
// what the validator rejects. Quantities are stored as exact decimal text.
const schema = `
CREATE TABLE IF NOT EXISTS companies (
    id         TEXT PRIMARY KEY,
    name       TEXT NOT NULL,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS users (
    id            TEXT PRIMARY KEY,
    name          TEXT NOT NULL,
    email         TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    company_id    TEXT NOT NULL REFERENCES companies(id),
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at    DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email_active
    ON users(email) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS projects (
    id         TEXT PRIMARY KEY,
    name       TEXT NOT NULL,
    company_id TEXT NOT NULL REFERENCES companies(id)
);

CREATE TABLE IF NOT EXISTS material_requests (
    id                TEXT PRIMARY KEY,
    project_id        TEXT REFERENCES projects(id),
    material_name     TEXT NOT NULL,
    quantity          TEXT NOT NULL,
    unit              TEXT NOT NULL CHECK (unit IN ('kg', 'm', 'pieces', 'liters', 'bags', 'boxes', 'sheets', 'rolls')),
    priority          TEXT NOT NULL CHECK (priority IN ('low', 'medium', 'high', 'urgent')),
    status            TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'approved', 'rejected', 'fulfilled')),
    requested_by      TEXT NOT NULL REFERENCES users(id),
    requested_by_name TEXT NOT NULL,
    requested_at      DATETIME NOT NULL,
    notes             TEXT,
    company_id        TEXT NOT NULL REFERENCES companies(id)
);

CREATE INDEX IF NOT EXISTS idx_material_requests_company_date
    ON material_requests(company_id, requested_at DESC);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS revoked_tokens (
    jti        TEXT PRIMARY KEY,
    expires_at DATETIME NOT NULL
);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
