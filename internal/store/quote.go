package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/rickgao/eod-data/internal/model"
)

const insertQuote = `
	INSERT INTO quotes (code, quote_ts, gmt_offset, open, high, low, close,
		previous_close, change, change_pct, volume, run_id, fetched_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	ON CONFLICT (code, quote_ts) DO NOTHING
`

// QuoteWriter writes real-time quote records to the quotes table.
type QuoteWriter struct {
	db     Batcher
	logger *slog.Logger

	mu      sync.Mutex
	metrics WriterMetrics
}

// NewQuoteWriter creates a new QuoteWriter.
func NewQuoteWriter(db Batcher, logger *slog.Logger) *QuoteWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &QuoteWriter{db: db, logger: logger}
}

// Write converts records to rows and inserts them in one batch.
// Records without a code or a valid timestamp are skipped and counted.
func (w *QuoteWriter) Write(ctx context.Context, runID uuid.UUID, fetchedAt time.Time, records []model.Record) (Result, error) {
	rows := make([]quoteRow, 0, len(records))
	var res Result
	for _, rec := range records {
		row, ok := w.transform(rec, runID, fetchedAt)
		if !ok {
			res.Skipped++
			w.logger.Debug("skipping quote record", "code", rec["code"], "timestamp", rec["timestamp"])
			continue
		}
		rows = append(rows, row)
	}

	w.mu.Lock()
	w.metrics.Skipped += int64(res.Skipped)
	w.mu.Unlock()

	if len(rows) == 0 {
		return res, nil
	}

	start := time.Now()
	conflicts, err := w.batchInsert(ctx, rows)
	if err != nil {
		w.mu.Lock()
		w.metrics.Errors++
		w.mu.Unlock()
		w.logger.Error("quote batch insert failed", "error", err, "count", len(rows))
		return res, fmt.Errorf("insert quotes: %w", err)
	}

	res.Inserted = len(rows) - conflicts
	res.Conflicts = conflicts

	w.mu.Lock()
	w.metrics.Inserts += int64(res.Inserted)
	w.metrics.Conflicts += int64(conflicts)
	w.metrics.Flushes++
	w.mu.Unlock()

	w.logger.Debug("flushed quotes",
		"run_id", runID,
		"count", len(rows),
		"conflicts", conflicts,
		"duration", time.Since(start),
	)
	return res, nil
}

// Stats returns current metrics.
func (w *QuoteWriter) Stats() WriterMetrics {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.metrics
}

// transform converts a real-time record to a quoteRow.
func (w *QuoteWriter) transform(rec model.Record, runID uuid.UUID, fetchedAt time.Time) (quoteRow, bool) {
	code := stringField(rec, "code")
	if code == "" {
		return quoteRow{}, false
	}
	ts, ok := unixField(rec, "timestamp")
	if !ok {
		return quoteRow{}, false
	}

	var offset int
	if d, ok := decimalValue(rec["gmtoffset"]); ok {
		offset = int(d.IntPart())
	}

	return quoteRow{
		Code:          code,
		QuoteTs:       ts,
		GMTOffset:     offset,
		Open:          decimalField(rec, "open"),
		High:          decimalField(rec, "high"),
		Low:           decimalField(rec, "low"),
		Close:         decimalField(rec, "close"),
		PreviousClose: decimalField(rec, "previousClose"),
		Change:        decimalField(rec, "change"),
		ChangePct:     decimalField(rec, "change_p"),
		Volume:        int64Field(rec, "volume"),
		RunID:         runID,
		FetchedAt:     fetchedAt.UTC(),
	}, true
}

// batchInsert inserts rows using pgx.Batch with ON CONFLICT DO NOTHING.
func (w *QuoteWriter) batchInsert(ctx context.Context, rows []quoteRow) (conflicts int, err error) {
	batch := &pgx.Batch{}
	for _, r := range rows {
		batch.Queue(insertQuote,
			r.Code, r.QuoteTs, r.GMTOffset, r.Open, r.High, r.Low, r.Close,
			r.PreviousClose, r.Change, r.ChangePct, r.Volume, r.RunID, r.FetchedAt)
	}
	return execBatch(ctx, w.db, batch, len(rows))
}

// execBatch sends b and counts rows that hit a conflict.
func execBatch(ctx context.Context, db Batcher, b *pgx.Batch, n int) (conflicts int, err error) {
	results := db.SendBatch(ctx, b)
	defer results.Close()

	for range n {
		ct, err := results.Exec()
		if err != nil {
			return 0, err
		}
		if ct.RowsAffected() == 0 {
			conflicts++
		}
	}
	return conflicts, nil
}
