package stream

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rickgao/eod-data/internal/model"
)

// Errors
var (
	ErrNotConnected    = errors.New("not connected")
	ErrStaleConnection = errors.New("connection stale (no pong)")
	ErrAlreadyClosed   = errors.New("already closed")
	ErrUnknownFeed     = errors.New("unknown feed")
	ErrNoSymbols       = errors.New("at least one symbol is required")
)

// Feed names a live-feed endpoint.
type Feed string

const (
	FeedUSTrades Feed = "us"
	FeedUSQuotes Feed = "us-quote"
	FeedForex    Feed = "forex"
	FeedCrypto   Feed = "crypto"
)

// ParseFeed validates a feed name.
func ParseFeed(s string) (Feed, error) {
	switch f := Feed(s); f {
	case FeedUSTrades, FeedUSQuotes, FeedForex, FeedCrypto:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFeed, s)
	}
}

// Config holds live-feed client settings.
type Config struct {
	BaseURL      string // e.g. wss://ws.eodhistoricaldata.com/ws
	Feed         Feed
	APIToken     string
	WriteTimeout time.Duration
	PingInterval time.Duration
	PingTimeout  time.Duration
	BufferSize   int
}

// DefaultConfig returns sensible defaults for everything but the URL, feed and token.
func DefaultConfig() Config {
	return Config{
		WriteTimeout: 5 * time.Second,
		PingInterval: 30 * time.Second,
		PingTimeout:  90 * time.Second,
		BufferSize:   1024,
	}
}

// TimestampedMessage wraps raw frame data with the receive timestamp.
type TimestampedMessage struct {
	Data       []byte
	ReceivedAt time.Time
}

// Record decodes the frame as a JSON object, keeping numbers as json.Number.
func (m TimestampedMessage) Record() (model.Record, error) {
	dec := json.NewDecoder(bytes.NewReader(m.Data))
	dec.UseNumber()
	var rec model.Record
	if err := dec.Decode(&rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// command is a subscription change sent to the server.
type command struct {
	Action  string `json:"action"`
	Symbols string `json:"symbols"`
}
