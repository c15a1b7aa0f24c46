package stream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Client is a single live-feed WebSocket connection.
type Client struct {
	cfg    Config
	logger *slog.Logger

	conn *websocket.Conn

	messages chan TimestampedMessage
	errors   chan error
	done     chan struct{}

	writeMu sync.Mutex

	mu         sync.RWMutex
	connected  bool
	closed     bool
	lastPongAt time.Time
	symbols    map[string]struct{}
}

// NewClient creates a new live-feed client. Zero durations and buffer size
// fall back to DefaultConfig.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	def := DefaultConfig()
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = def.WriteTimeout
	}
	if cfg.PingInterval <= 0 {
		cfg.PingInterval = def.PingInterval
	}
	if cfg.PingTimeout <= 0 {
		cfg.PingTimeout = def.PingTimeout
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = def.BufferSize
	}

	return &Client{
		cfg:      cfg,
		logger:   logger,
		messages: make(chan TimestampedMessage, cfg.BufferSize),
		errors:   make(chan error, 1),
		done:     make(chan struct{}),
		symbols:  make(map[string]struct{}),
	}
}

// endpoint returns {base}/{feed}?api_token=...
func (c *Client) endpoint() (string, error) {
	if _, err := ParseFeed(string(c.cfg.Feed)); err != nil {
		return "", err
	}
	u, err := url.Parse(strings.TrimRight(c.cfg.BaseURL, "/") + "/" + string(c.cfg.Feed))
	if err != nil {
		return "", fmt.Errorf("parse feed url: %w", err)
	}
	q := u.Query()
	q.Set("api_token", c.cfg.APIToken)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Connect establishes the WebSocket connection.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.RLock()
	closed := c.closed
	c.mu.RUnlock()
	if closed {
		return ErrAlreadyClosed
	}

	endpoint, err := c.endpoint()
	if err != nil {
		return err
	}

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	conn, resp, err := dialer.DialContext(ctx, endpoint, http.Header{})
	if err != nil {
		if resp != nil {
			return fmt.Errorf("dial %s feed: %s", c.cfg.Feed, resp.Status)
		}
		return fmt.Errorf("dial %s feed: %w", c.cfg.Feed, redact(err, c.cfg.APIToken))
	}

	c.mu.Lock()
	c.conn = conn
	c.connected = true
	c.lastPongAt = time.Now()
	c.mu.Unlock()

	conn.SetPongHandler(func(string) error {
		c.mu.Lock()
		c.lastPongAt = time.Now()
		c.mu.Unlock()
		return nil
	})

	go c.readLoop()
	go c.heartbeatLoop()

	c.logger.Debug("live feed connected", "feed", c.cfg.Feed)

	return nil
}

// Subscribe adds symbols to the feed.
func (c *Client) Subscribe(symbols ...string) error {
	if err := c.send("subscribe", symbols); err != nil {
		return err
	}
	c.mu.Lock()
	for _, s := range symbols {
		c.symbols[s] = struct{}{}
	}
	c.mu.Unlock()
	return nil
}

// Unsubscribe removes symbols from the feed.
func (c *Client) Unsubscribe(symbols ...string) error {
	if err := c.send("unsubscribe", symbols); err != nil {
		return err
	}
	c.mu.Lock()
	for _, s := range symbols {
		delete(c.symbols, s)
	}
	c.mu.Unlock()
	return nil
}

// Symbols returns the number of subscribed symbols.
func (c *Client) Symbols() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.symbols)
}

func (c *Client) send(action string, symbols []string) error {
	if len(symbols) == 0 {
		return ErrNoSymbols
	}
	data, err := json.Marshal(command{Action: action, Symbols: strings.Join(symbols, ",")})
	if err != nil {
		return err
	}
	return c.Send(data)
}

// Send writes raw bytes to the connection.
func (c *Client) Send(data []byte) error {
	c.mu.RLock()
	if !c.connected {
		c.mu.RUnlock()
		return ErrNotConnected
	}
	conn := c.conn
	c.mu.RUnlock()

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
	return conn.WriteMessage(websocket.TextMessage, data)
}

// Messages returns the messages channel.
func (c *Client) Messages() <-chan TimestampedMessage {
	return c.messages
}

// Errors returns the errors channel. At most one error is delivered; the
// connection is unusable afterwards.
func (c *Client) Errors() <-chan error {
	return c.errors
}

// IsConnected returns the current connection state.
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// Close gracefully closes the connection.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.connected = false
	conn := c.conn
	c.mu.Unlock()

	close(c.done)

	if conn == nil {
		return nil
	}

	c.writeMu.Lock()
	conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second),
	)
	c.writeMu.Unlock()
	return conn.Close()
}

// readLoop reads frames and forwards them to the messages channel.
func (c *Client) readLoop() {
	defer func() {
		c.mu.Lock()
		c.connected = false
		c.mu.Unlock()
	}()

	for {
		_, data, err := c.conn.ReadMessage()
		receivedAt := time.Now()

		if err != nil {
			select {
			case <-c.done:
			default:
				c.fail(err)
			}
			return
		}

		select {
		case c.messages <- TimestampedMessage{Data: data, ReceivedAt: receivedAt}:
		case <-c.done:
			return
		default:
			c.logger.Warn("message buffer full, dropping message", "feed", c.cfg.Feed)
		}
	}
}

// heartbeatLoop pings the server and reports a stale connection.
func (c *Client) heartbeatLoop() {
	ticker := time.NewTicker(c.cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.writeMu.Lock()
			err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(c.cfg.WriteTimeout))
			c.writeMu.Unlock()
			if err != nil {
				c.logger.Debug("failed to send ping", "error", err)
			}

			c.mu.RLock()
			lastPong := c.lastPongAt
			c.mu.RUnlock()

			if time.Since(lastPong) > c.cfg.PingTimeout {
				c.logger.Warn("no pong received, connection stale",
					"last_pong", lastPong,
					"timeout", c.cfg.PingTimeout,
				)
				c.fail(ErrStaleConnection)
				return
			}
		}
	}
}

func (c *Client) fail(err error) {
	select {
	case c.errors <- err:
	default:
	}
}

// redact removes the token from dial errors, which embed the request URL.
func redact(err error, token string) error {
	if token == "" {
		return err
	}
	msg := err.Error()
	masked := strings.ReplaceAll(msg, url.QueryEscape(token), "REDACTED")
	masked = strings.ReplaceAll(masked, token, "REDACTED")
	if masked == msg {
		return err
	}
	return errors.New(masked)
}
