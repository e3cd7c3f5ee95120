package postgres

import (
	"context"
	"fmt"
)

// schema tablas del servicio. Las cantidades son NUMERIC (decimal vía pgx-shopspring-decimal).
// transactions.item_id no es FK: al borrar un artículo sus movimientos quedan huérfanos.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS inventory_items (
		id              TEXT PRIMARY KEY,
		name            TEXT NOT NULL,
		category        TEXT NOT NULL DEFAULT '',
		location        TEXT NOT NULL DEFAULT '',
		quantity        NUMERIC(18,4) NOT NULL DEFAULT 0,
		unit            TEXT NOT NULL DEFAULT '',
		min_stock_level NUMERIC(18,4) NOT NULL DEFAULT 0,
		price           NUMERIC(18,4) NOT NULL DEFAULT 0,
		last_updated    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		description     TEXT NOT NULL DEFAULT '',
		seq             BIGSERIAL
	)`,
	`CREATE TABLE IF NOT EXISTS transactions (
		id        TEXT PRIMARY KEY,
		item_id   TEXT NOT NULL,
		item_name TEXT NOT NULL,
		type      TEXT NOT NULL CHECK (type IN ('INBOUND', 'OUTBOUND')),
		quantity  NUMERIC(18,4) NOT NULL CHECK (quantity > 0),
		timestamp TIMESTAMPTZ NOT NULL,
		username  TEXT NOT NULL,
		notes     TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_item ON transactions (item_id)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_timestamp ON transactions (timestamp DESC)`,
	`CREATE TABLE IF NOT EXISTS categories (
		id    TEXT PRIMARY KEY,
		name  TEXT NOT NULL,
		color TEXT NOT NULL DEFAULT '',
		seq   BIGSERIAL
	)`,
	`CREATE TABLE IF NOT EXISTS locations (
		id   TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		seq  BIGSERIAL
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id            TEXT PRIMARY KEY,
		username      TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		role          TEXT NOT NULL CHECK (role IN ('admin', 'user')),
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username ON users (LOWER(username))`,
}

// Migrate crea las tablas si no existen. Idempotente.
func Migrate(ctx context.Context, q Querier) error {
	for _, stmt := range schema {
		if _, err := q.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
