package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// Batcher is the subset of *pgxpool.Pool used by the writers.
type Batcher interface {
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// WriterMetrics holds counters for a writer.
type WriterMetrics struct {
	Inserts   int64
	Conflicts int64
	Skipped   int64 // records that could not be converted to a row
	Errors    int64
	Flushes   int64
}

// Result reports the outcome of a single Write call.
type Result struct {
	Inserted  int
	Conflicts int
	Skipped   int
}

// quoteRow represents a row for the quotes table.
type quoteRow struct {
	Code          string
	QuoteTs       time.Time
	GMTOffset     int
	Open          decimal.NullDecimal
	High          decimal.NullDecimal
	Low           decimal.NullDecimal
	Close         decimal.NullDecimal
	PreviousClose decimal.NullDecimal
	Change        decimal.NullDecimal
	ChangePct     decimal.NullDecimal
	Volume        *int64
	RunID         uuid.UUID
	FetchedAt     time.Time
}

// barRow represents a row for the eod_bars table.
type barRow struct {
	Code          string
	Exchange      string
	Date          time.Time
	Open          decimal.NullDecimal
	High          decimal.NullDecimal
	Low           decimal.NullDecimal
	Close         decimal.NullDecimal
	AdjustedClose decimal.NullDecimal
	Volume        *int64
}
