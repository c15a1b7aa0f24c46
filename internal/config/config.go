package config

import (
	"fmt"
	"time"

	"github.com/rickgao/eod-data/internal/model"
)

// Config is the root configuration.
type Config struct {
	API      APIConfig      `yaml:"api"`
	Database DatabaseConfig `yaml:"database"`
	Poller   PollerConfig   `yaml:"poller"`
	Health   HealthConfig   `yaml:"health"`
	Log      LogConfig      `yaml:"log"`
}

// APIConfig holds EOD Historical Data API settings.
type APIConfig struct {
	BaseURL   string        `yaml:"base_url"`
	WSURL     string        `yaml:"ws_url"`
	APIToken  string        `yaml:"api_token"`
	Timeout   time.Duration `yaml:"timeout"`
	BatchSize int           `yaml:"batch_size"` // Instruments per real-time request
}

// DatabaseConfig holds the TimescaleDB connection used by the gatherer.
type DatabaseConfig struct {
	Timescale DBConfig `yaml:"timescale"`
}

// DBConfig holds a single database connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// PollerConfig holds real-time quote poller settings.
type PollerConfig struct {
	Interval  time.Duration `yaml:"interval"`
	Timeout   time.Duration `yaml:"timeout"`   // Per-cycle timeout
	Watchlist []string      `yaml:"watchlist"` // CODE.EXCHANGE entries
}

// HealthConfig holds the health endpoint settings.
type HealthConfig struct {
	Port int `yaml:"port"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// Batch parses the watchlist into an instrument batch.
func (p PollerConfig) Batch() (model.Batch, error) {
	instruments := make([]model.Instrument, 0, len(p.Watchlist))
	for i, s := range p.Watchlist {
		inst, err := model.ParseInstrument(s)
		if err != nil {
			return model.Batch{}, fmt.Errorf("poller.watchlist[%d]: %w", i, err)
		}
		instruments = append(instruments, inst)
	}
	return model.NewBatch(instruments)
}
