package database

import (
	"fmt"
	"net"
	"net/url"
	"strconv"

	"github.com/rickgao/eod-data/internal/config"
)

// BuildConnString builds a PostgreSQL URL from config. Pool sizing is passed
// through the pool_max_conns and pool_min_conns parameters understood by pgxpool.
func BuildConnString(cfg config.DBConfig) string {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = config.DefaultDBSSLMode
	}

	params := url.Values{}
	params.Set("sslmode", sslMode)
	if cfg.MaxConns > 0 {
		params.Set("pool_max_conns", strconv.Itoa(cfg.MaxConns))
	}
	if cfg.MinConns > 0 {
		params.Set("pool_min_conns", strconv.Itoa(cfg.MinConns))
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     net.JoinHostPort(cfg.Host, fmt.Sprint(cfg.Port)),
		Path:     "/" + cfg.Name,
		RawQuery: params.Encode(),
	}
	return u.String()
}
