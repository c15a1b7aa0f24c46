package poller

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/rickgao/eod-data/internal/model"
)

// QuoteSource fetches real-time quotes for a batch of instruments.
// *api.Client satisfies it.
type QuoteSource interface {
	RealTimeBatch(ctx context.Context, batch model.Batch) ([]model.Record, error)
}

// Snapshot is the result of one poll cycle.
type Snapshot struct {
	RunID     uuid.UUID
	FetchedAt time.Time
	Records   []model.Record
}

// SnapshotHandler receives fetched snapshots.
type SnapshotHandler interface {
	HandleSnapshot(ctx context.Context, snapshot Snapshot) error
}

// SnapshotHandlerFunc is a function adapter for SnapshotHandler.
type SnapshotHandlerFunc func(context.Context, Snapshot) error

func (f SnapshotHandlerFunc) HandleSnapshot(ctx context.Context, s Snapshot) error {
	return f(ctx, s)
}

// Config holds poller configuration.
type Config struct {
	Interval time.Duration // Poll interval (default: 1m)
	Timeout  time.Duration // Per-cycle timeout (default: 30s)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Interval: time.Minute,
		Timeout:  30 * time.Second,
	}
}

// Stats holds poller counters.
type Stats struct {
	Cycles   int64
	Failures int64
	Records  int64
}

// Poller periodically fetches real-time quotes for a fixed batch.
type Poller struct {
	cfg     Config
	source  QuoteSource
	batch   model.Batch
	handler SnapshotHandler
	logger  *slog.Logger
	now     func() time.Time

	cycles   atomic.Int64
	failures atomic.Int64
	records  atomic.Int64

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a new Poller.
func New(cfg Config, source QuoteSource, batch model.Batch, handler SnapshotHandler, logger *slog.Logger) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	def := DefaultConfig()
	if cfg.Interval <= 0 {
		cfg.Interval = def.Interval
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	return &Poller{
		cfg:     cfg,
		source:  source,
		batch:   batch,
		handler: handler,
		logger:  logger,
		now:     time.Now,
	}
}

// Start begins the polling loop.
func (p *Poller) Start(ctx context.Context) error {
	p.ctx, p.cancel = context.WithCancel(ctx)

	p.wg.Add(1)
	go p.run()

	p.logger.Info("quote poller started",
		"interval", p.cfg.Interval,
		"instruments", p.batch.Len(),
	)

	return nil
}

// Stop gracefully shuts down the poller.
func (p *Poller) Stop(ctx context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("quote poller stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stats returns current counters.
func (p *Poller) Stats() Stats {
	return Stats{
		Cycles:   p.cycles.Load(),
		Failures: p.failures.Load(),
		Records:  p.records.Load(),
	}
}

// run is the main polling loop.
func (p *Poller) run() {
	defer p.wg.Done()

	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	// Poll immediately on start.
	p.poll()

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			p.poll()
		}
	}
}

// poll runs a single cycle.
func (p *Poller) poll() {
	runID := uuid.New()
	start := p.now()
	p.cycles.Add(1)

	n, err := p.pollOnce(runID, start)
	if err != nil {
		p.failures.Add(1)
		p.logger.Warn("poll cycle failed",
			"run_id", runID,
			"err", err,
			"duration", time.Since(start),
		)
		return
	}

	p.records.Add(int64(n))
	p.logger.Info("poll cycle complete",
		"run_id", runID,
		"instruments", p.batch.Len(),
		"records", n,
		"duration", time.Since(start),
	)
}

func (p *Poller) pollOnce(runID uuid.UUID, fetchedAt time.Time) (int, error) {
	ctx, cancel := context.WithTimeout(p.ctx, p.cfg.Timeout)
	defer cancel()

	records, err := p.source.RealTimeBatch(ctx, p.batch)
	if err != nil {
		return 0, err
	}

	if p.handler != nil {
		snap := Snapshot{RunID: runID, FetchedAt: fetchedAt, Records: records}
		if err := p.handler.HandleSnapshot(ctx, snap); err != nil {
			return 0, err
		}
	}

	return len(records), nil
}
