package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/rickgao/eod-data/internal/model"
)

const insertBar = `
	INSERT INTO eod_bars (code, exchange, date, open, high, low, close, adjusted_close, volume)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	ON CONFLICT (code, exchange, date) DO NOTHING
`

// BarWriter writes end-of-day records to the eod_bars table.
type BarWriter struct {
	db     Batcher
	logger *slog.Logger

	mu      sync.Mutex
	metrics WriterMetrics
}

// NewBarWriter creates a new BarWriter.
func NewBarWriter(db Batcher, logger *slog.Logger) *BarWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &BarWriter{db: db, logger: logger}
}

// Write inserts the end-of-day records of inst. Records without a valid
// date are skipped and counted.
func (w *BarWriter) Write(ctx context.Context, inst model.Instrument, records []model.Record) (Result, error) {
	rows := make([]barRow, 0, len(records))
	var res Result
	for _, rec := range records {
		row, ok := w.transform(inst, rec)
		if !ok {
			res.Skipped++
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
	batch := &pgx.Batch{}
	for _, r := range rows {
		batch.Queue(insertBar,
			r.Code, r.Exchange, r.Date, r.Open, r.High, r.Low, r.Close, r.AdjustedClose, r.Volume)
	}

	conflicts, err := execBatch(ctx, w.db, batch, len(rows))
	if err != nil {
		w.mu.Lock()
		w.metrics.Errors++
		w.mu.Unlock()
		return res, fmt.Errorf("insert bars for %s: %w", inst, err)
	}

	res.Inserted = len(rows) - conflicts
	res.Conflicts = conflicts

	w.mu.Lock()
	w.metrics.Inserts += int64(res.Inserted)
	w.metrics.Conflicts += int64(conflicts)
	w.metrics.Flushes++
	w.mu.Unlock()

	w.logger.Debug("flushed bars",
		"instrument", inst.String(),
		"count", len(rows),
		"conflicts", conflicts,
		"duration", time.Since(start),
	)
	return res, nil
}

// Stats returns current metrics.
func (w *BarWriter) Stats() WriterMetrics {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.metrics
}

func (w *BarWriter) transform(inst model.Instrument, rec model.Record) (barRow, bool) {
	date, err := model.ParseDate(stringField(rec, "date"))
	if err != nil {
		return barRow{}, false
	}
	return barRow{
		Code:          inst.Code(),
		Exchange:      inst.Exchange(),
		Date:          date.Time(),
		Open:          decimalField(rec, "open"),
		High:          decimalField(rec, "high"),
		Low:           decimalField(rec, "low"),
		Close:         decimalField(rec, "close"),
		AdjustedClose: decimalField(rec, "adjusted_close"),
		Volume:        int64Field(rec, "volume"),
	}, true
}
