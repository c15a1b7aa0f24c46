package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Execer is the subset of *pgxpool.Pool used to apply the schema.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Schema holds the DDL statements applied by EnsureSchema, in order.
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS quotes (
		code           TEXT        NOT NULL,
		quote_ts       TIMESTAMPTZ NOT NULL,
		gmt_offset     INTEGER     NOT NULL DEFAULT 0,
		open           NUMERIC,
		high           NUMERIC,
		low            NUMERIC,
		close          NUMERIC,
		previous_close NUMERIC,
		change         NUMERIC,
		change_pct     NUMERIC,
		volume         BIGINT,
		run_id         UUID        NOT NULL,
		fetched_at     TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (code, quote_ts)
	)`,
	`CREATE TABLE IF NOT EXISTS eod_bars (
		code           TEXT    NOT NULL,
		exchange       TEXT    NOT NULL,
		date           DATE    NOT NULL,
		open           NUMERIC,
		high           NUMERIC,
		low            NUMERIC,
		close          NUMERIC,
		adjusted_close NUMERIC,
		volume         BIGINT,
		PRIMARY KEY (code, exchange, date)
	)`,
}

// EnsureSchema creates the tables if they do not exist.
func EnsureSchema(ctx context.Context, db Execer) error {
	for i, stmt := range Schema {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i, err)
		}
	}
	return nil
}
