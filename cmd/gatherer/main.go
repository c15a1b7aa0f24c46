// gatherer polls real-time quotes for a watchlist and stores them in TimescaleDB.
// Usage: gatherer --config configs/gatherer.yaml
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rickgao/eod-data/internal/api"
	"github.com/rickgao/eod-data/internal/config"
	"github.com/rickgao/eod-data/internal/database"
	"github.com/rickgao/eod-data/internal/logging"
	"github.com/rickgao/eod-data/internal/poller"
	"github.com/rickgao/eod-data/internal/store"
	"github.com/rickgao/eod-data/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/gatherer.yaml", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("gatherer failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.LoadWithDefaults(configPath)
	if err != nil {
		return err
	}
	if err := cfg.ValidateGatherer(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stdout)
	slog.SetDefault(logger)

	logger.Info("starting gatherer",
		"version", version.Version,
		"commit", version.Commit,
		"config", configPath,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("connecting to database",
		"host", cfg.Database.Timescale.Host,
		"port", cfg.Database.Timescale.Port,
		"database", cfg.Database.Timescale.Name,
	)

	pool, err := database.Connect(ctx, cfg.Database.Timescale)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	if err := database.EnsureSchema(ctx, pool); err != nil {
		return err
	}
	logger.Info("database connected")

	client, err := api.NewClient(
		cfg.API.BaseURL,
		cfg.API.APIToken,
		api.WithLogger(logger),
		api.WithTimeout(cfg.API.Timeout),
		api.WithBatchSize(cfg.API.BatchSize),
	)
	if err != nil {
		return err
	}

	batch, err := cfg.Poller.Batch()
	if err != nil {
		return err
	}

	writer := store.NewQuoteWriter(pool, logger)
	handler := poller.SnapshotHandlerFunc(func(ctx context.Context, s poller.Snapshot) error {
		_, err := writer.Write(ctx, s.RunID, s.FetchedAt, s.Records)
		return err
	})

	p := poller.New(poller.Config{
		Interval: cfg.Poller.Interval,
		Timeout:  cfg.Poller.Timeout,
	}, client, batch, handler, logger)

	healthServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Health.Port),
		Handler:           newHealthHandler(pool, p, writer),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting health server", "port", cfg.Health.Port)
		if err := healthServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("health server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		if err := p.Start(gctx); err != nil {
			return err
		}
		<-gctx.Done()

		logger.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := p.Stop(shutdownCtx); err != nil {
			logger.Warn("poller stop timed out", "error", err)
		}
		return healthServer.Shutdown(shutdownCtx)
	})

	logger.Info("gatherer running",
		"instruments", batch.Len(),
		"interval", cfg.Poller.Interval,
		"health_url", fmt.Sprintf("http://localhost:%d/health", cfg.Health.Port),
	)

	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info("gatherer stopped",
		"cycles", p.Stats().Cycles,
		"inserted", writer.Stats().Inserts,
	)
	return nil
}

// pinger is the subset of *pgxpool.Pool used by the health check.
type pinger interface {
	Ping(ctx context.Context) error
}

// statsSource reports poller counters.
type statsSource interface {
	Stats() poller.Stats
}

// writerStats reports writer counters.
type writerStats interface {
	Stats() store.WriterMetrics
}

// newHealthHandler creates the HTTP handler for health checks.
func newHealthHandler(db pinger, polls statsSource, writer writerStats) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		health := struct {
			Status     string         `json:"status"`
			Version    string         `json:"version"`
			Components map[string]any `json:"components"`
		}{
			Status:     "healthy",
			Version:    version.Version,
			Components: make(map[string]any),
		}

		if err := db.Ping(ctx); err != nil {
			health.Status = "unhealthy"
			health.Components["timescaledb"] = map[string]string{
				"status": "disconnected",
				"error":  err.Error(),
			}
		} else {
			health.Components["timescaledb"] = "connected"
		}

		ps := polls.Stats()
		health.Components["poller"] = ps
		health.Components["writer"] = writer.Stats()
		if health.Status == "healthy" && ps.Cycles > 0 && ps.Failures == ps.Cycles {
			health.Status = "degraded"
		}

		w.Header().Set("Content-Type", "application/json")
		if health.Status == "unhealthy" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(health)
	})

	return mux
}
