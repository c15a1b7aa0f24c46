package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultBaseURL      = "https://eodhistoricaldata.com/api"
	DefaultWSURL        = "wss://ws.eodhistoricaldata.com/ws"
	DefaultAPITimeout   = 30 * time.Second
	DefaultBatchSize    = 20
	DefaultDBPort       = 5432
	DefaultDBSSLMode    = "prefer"
	DefaultMaxConns     = 10
	DefaultMinConns     = 2
	DefaultPollInterval = 1 * time.Minute
	DefaultPollTimeout  = 30 * time.Second
	DefaultHealthPort   = 8080
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "text"
)

func (c *Config) applyDefaults() {
	// API defaults
	if c.API.BaseURL == "" {
		c.API.BaseURL = DefaultBaseURL
	}
	if c.API.WSURL == "" {
		c.API.WSURL = DefaultWSURL
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = DefaultAPITimeout
	}
	if c.API.BatchSize == 0 {
		c.API.BatchSize = DefaultBatchSize
	}

	applyDBDefaults(&c.Database.Timescale)

	// Poller defaults
	if c.Poller.Interval == 0 {
		c.Poller.Interval = DefaultPollInterval
	}
	if c.Poller.Timeout == 0 {
		c.Poller.Timeout = DefaultPollTimeout
	}

	if c.Health.Port == 0 {
		c.Health.Port = DefaultHealthPort
	}

	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
}

func applyDBDefaults(db *DBConfig) {
	if db.Port == 0 {
		db.Port = DefaultDBPort
	}
	if db.SSLMode == "" {
		db.SSLMode = DefaultDBSSLMode
	}
	if db.MaxConns == 0 {
		db.MaxConns = DefaultMaxConns
	}
	if db.MinConns == 0 {
		db.MinConns = DefaultMinConns
	}
}
