package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rickgao/eod-data/internal/model"
)

// Validate checks the settings every binary needs. A missing API token is
// reported as model.ErrAPIKeyMissing.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.API.APIToken) == "" {
		return fmt.Errorf("api.api_token (or %s): %w", EnvAPIKey, model.ErrAPIKeyMissing)
	}
	if c.API.BatchSize < 1 {
		return errors.New("api.batch_size must be >= 1")
	}
	if c.API.Timeout < 0 {
		return errors.New("api.timeout must be >= 0")
	}

	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}

	return nil
}

// ValidateGatherer additionally checks the database, poller and health settings.
func (c *Config) ValidateGatherer() error {
	if err := c.Validate(); err != nil {
		return err
	}

	if err := c.ValidateDatabase(); err != nil {
		return err
	}

	if len(c.Poller.Watchlist) == 0 {
		return errors.New("poller.watchlist is required")
	}
	if _, err := c.Poller.Batch(); err != nil {
		return err
	}
	if c.Poller.Interval <= 0 {
		return errors.New("poller.interval must be > 0")
	}

	if c.Health.Port < 1 || c.Health.Port > 65535 {
		return fmt.Errorf("health.port must be between 1 and 65535, got %d", c.Health.Port)
	}

	return nil
}

// ValidateDatabase checks the TimescaleDB connection settings.
func (c *Config) ValidateDatabase() error {
	return c.Database.Timescale.validate("database.timescale")
}

func (db *DBConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Password == "" {
		return fmt.Errorf("%s.password is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}
