package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS receipts (
	id              TEXT PRIMARY KEY,
	merchant_name   TEXT NOT NULL,
	total_amount    TEXT NOT NULL DEFAULT '',
	tax_amount      TEXT NOT NULL DEFAULT '',
	subtotal_amount TEXT NOT NULL DEFAULT '',
	tx_date         TEXT NOT NULL,
	tx_time         TEXT NOT NULL DEFAULT '',
	currency_code   TEXT NOT NULL,
	payment_method  TEXT NOT NULL DEFAULT '',
	line_items      TEXT NOT NULL DEFAULT '[]',
	confidence      REAL NOT NULL,
	needs_review    INTEGER NOT NULL DEFAULT 0,
	source          TEXT NOT NULL DEFAULT '',
	created_at      TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_receipts_tx_date ON receipts(tx_date);
`

// Open opens (creating if needed) the sqlite store at path and applies the
// schema.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// modernc sqlite is single-writer; keep the pool small.
	db.SetMaxOpenConns(1)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if _, err := db.ExecContext(ctx, schemaDDL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return db, nil
}
