package infra

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema creates the sandbox tables. Every statement is idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
        id UUID PRIMARY KEY,
        email TEXT NOT NULL UNIQUE,
        first_name TEXT NOT NULL DEFAULT '',
        last_name TEXT NOT NULL DEFAULT '',
        phone TEXT NOT NULL DEFAULT '',
        password_hash BYTEA NOT NULL,
        created_at TIMESTAMPTZ NOT NULL
    )`,
	`CREATE TABLE IF NOT EXISTS accounts (
        id UUID PRIMARY KEY,
        user_id UUID NOT NULL REFERENCES users(id),
        alias TEXT NOT NULL,
        cvu TEXT NOT NULL UNIQUE,
        balance DOUBLE PRECISION NOT NULL DEFAULT 0,
        created_at TIMESTAMPTZ NOT NULL
    )`,
	`CREATE TABLE IF NOT EXISTS balance_adjustments (
        reference TEXT PRIMARY KEY,
        account_id UUID NOT NULL REFERENCES accounts(id),
        delta DOUBLE PRECISION NOT NULL,
        created_at TIMESTAMPTZ NOT NULL
    )`,
	`CREATE TABLE IF NOT EXISTS cards (
        id UUID PRIMARY KEY,
        account_id UUID NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
        number TEXT NOT NULL,
        first_last_name TEXT NOT NULL,
        expiration_date TEXT NOT NULL,
        created_at TIMESTAMPTZ NOT NULL,
        UNIQUE (account_id, number)
    )`,
	`CREATE TABLE IF NOT EXISTS transactions (
        id UUID PRIMARY KEY,
        account_id TEXT NOT NULL,
        type TEXT NOT NULL,
        amount DOUBLE PRECISION NOT NULL,
        origin TEXT NOT NULL,
        destination TEXT NOT NULL,
        name TEXT NOT NULL DEFAULT '',
        dated TIMESTAMPTZ NOT NULL
    )`,
	`CREATE INDEX IF NOT EXISTS transactions_account_dated_idx ON transactions (account_id, dated DESC)`,
	`CREATE INDEX IF NOT EXISTS transactions_destination_dated_idx ON transactions (destination, dated DESC)`,
}

// EnsureSchema creates the tables the repositories expect.
func EnsureSchema(ctx context.Context, db *pgxpool.Pool) error {
	for i, stmt := range schema {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i+1, err)
		}
	}
	return nil
}
