package stream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// mockFeed creates a test live-feed server. The request seen by the
// upgrade handler is passed to handler with the connection.
func mockFeed(t *testing.T, handler func(*http.Request, *websocket.Conn)) *httptest.Server {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Logf("upgrade error: %v", err)
			return
		}
		defer conn.Close()
		handler(r, conn)
	}))
}

func wsURL(server *httptest.Server) string {
	return "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
}

func drain(conn *websocket.Conn) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func TestParseFeed(t *testing.T) {
	for _, name := range []string{"us", "us-quote", "forex", "crypto"} {
		if _, err := ParseFeed(name); err != nil {
			t.Errorf("ParseFeed(%q) error = %v", name, err)
		}
	}
	if _, err := ParseFeed("options"); !errors.Is(err, ErrUnknownFeed) {
		t.Errorf("ParseFeed(options) error = %v, want ErrUnknownFeed", err)
	}
}

func TestClient_ConnectURL(t *testing.T) {
	seen := make(chan *url.URL, 1)

	server := mockFeed(t, func(r *http.Request, conn *websocket.Conn) {
		seen <- r.URL
		drain(conn)
	})
	defer server.Close()

	client := NewClient(Config{BaseURL: wsURL(server), Feed: FeedUSQuotes, APIToken: "demo"}, nil)
	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}

	if !client.IsConnected() {
		t.Error("expected IsConnected to return true")
	}

	select {
	case u := <-seen:
		if u.Path != "/ws/us-quote" {
			t.Errorf("path = %q, want /ws/us-quote", u.Path)
		}
		if got := u.Query().Get("api_token"); got != "demo" {
			t.Errorf("api_token = %q, want demo", got)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for handshake")
	}

	if err := client.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
	if client.IsConnected() {
		t.Error("expected IsConnected to return false after Close")
	}
}

func TestClient_ConnectUnknownFeed(t *testing.T) {
	client := NewClient(Config{BaseURL: "ws://127.0.0.1:1/ws", Feed: "bonds"}, nil)
	if err := client.Connect(context.Background()); !errors.Is(err, ErrUnknownFeed) {
		t.Errorf("Connect error = %v, want ErrUnknownFeed", err)
	}
}

func TestClient_ConnectAfterClose(t *testing.T) {
	client := NewClient(Config{Feed: FeedForex}, nil)
	client.Close()
	if err := client.Connect(context.Background()); !errors.Is(err, ErrAlreadyClosed) {
		t.Errorf("Connect error = %v, want ErrAlreadyClosed", err)
	}
}

func TestClient_Subscribe(t *testing.T) {
	received := make(chan command, 4)

	server := mockFeed(t, func(_ *http.Request, conn *websocket.Conn) {
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var cmd command
			if err := json.Unmarshal(data, &cmd); err == nil {
				received <- cmd
			}
		}
	})
	defer server.Close()

	client := NewClient(Config{BaseURL: wsURL(server), Feed: FeedUSTrades, APIToken: "demo"}, nil)
	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer client.Close()

	if err := client.Subscribe("AAPL", "TSLA"); err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	if err := client.Unsubscribe("TSLA"); err != nil {
		t.Fatalf("Unsubscribe failed: %v", err)
	}

	want := []command{
		{Action: "subscribe", Symbols: "AAPL,TSLA"},
		{Action: "unsubscribe", Symbols: "TSLA"},
	}
	for i, w := range want {
		select {
		case got := <-received:
			if got != w {
				t.Errorf("command %d = %+v, want %+v", i, got, w)
			}
		case <-time.After(time.Second):
			t.Fatalf("timeout waiting for command %d", i)
		}
	}

	if got := client.Symbols(); got != 1 {
		t.Errorf("Symbols() = %d, want 1", got)
	}
}

func TestClient_SubscribeErrors(t *testing.T) {
	client := NewClient(Config{Feed: FeedCrypto}, nil)

	if err := client.Subscribe("BTC-USD"); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Subscribe before Connect error = %v, want ErrNotConnected", err)
	}
	if err := client.Subscribe(); !errors.Is(err, ErrNoSymbols) {
		t.Errorf("Subscribe() error = %v, want ErrNoSymbols", err)
	}
}

func TestClient_Messages(t *testing.T) {
	frames := []string{
		`{"status_code":200,"message":"Authorized"}`,
		`{"s":"AAPL","p":189.71,"v":100,"t":1705320000000}`,
	}

	server := mockFeed(t, func(_ *http.Request, conn *websocket.Conn) {
		for _, f := range frames {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(f)); err != nil {
				return
			}
		}
		drain(conn)
	})
	defer server.Close()

	client := NewClient(Config{BaseURL: wsURL(server), Feed: FeedUSTrades, APIToken: "demo"}, nil)
	before := time.Now()
	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer client.Close()

	for i, want := range frames {
		select {
		case msg := <-client.Messages():
			if string(msg.Data) != want {
				t.Errorf("message %d = %s, want %s", i, msg.Data, want)
			}
			if msg.ReceivedAt.Before(before) {
				t.Errorf("message %d ReceivedAt = %v, before connect", i, msg.ReceivedAt)
			}
			if i == 1 {
				rec, err := msg.Record()
				if err != nil {
					t.Fatalf("Record() error = %v", err)
				}
				if rec["p"] != json.Number("189.71") {
					t.Errorf("p = %v, want 189.71", rec["p"])
				}
			}
		case <-time.After(time.Second):
			t.Fatalf("timeout waiting for message %d", i)
		}
	}
}

func TestClient_ServerClose(t *testing.T) {
	server := mockFeed(t, func(_ *http.Request, conn *websocket.Conn) {
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "invalid api token"))
	})
	defer server.Close()

	client := NewClient(Config{BaseURL: wsURL(server), Feed: FeedUSTrades, APIToken: "bad"}, nil)
	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer client.Close()

	select {
	case err := <-client.Errors():
		if !websocket.IsCloseError(err, websocket.ClosePolicyViolation) {
			t.Errorf("error = %v, want close 1008", err)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for error")
	}
}

func TestClient_StaleConnection(t *testing.T) {
	server := mockFeed(t, func(_ *http.Request, conn *websocket.Conn) {
		// Swallow pings so no pong is ever sent.
		conn.SetPingHandler(func(string) error { return nil })
		drain(conn)
	})
	defer server.Close()

	client := NewClient(Config{
		BaseURL:      wsURL(server),
		Feed:         FeedUSTrades,
		APIToken:     "demo",
		PingInterval: 20 * time.Millisecond,
		PingTimeout:  50 * time.Millisecond,
	}, nil)
	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer client.Close()

	select {
	case err := <-client.Errors():
		if !errors.Is(err, ErrStaleConnection) {
			t.Errorf("error = %v, want ErrStaleConnection", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for stale connection error")
	}
}

func TestClient_PongKeepsConnectionAlive(t *testing.T) {
	server := mockFeed(t, func(_ *http.Request, conn *websocket.Conn) {
		drain(conn)
	})
	defer server.Close()

	client := NewClient(Config{
		BaseURL:      wsURL(server),
		Feed:         FeedUSTrades,
		APIToken:     "demo",
		PingInterval: 20 * time.Millisecond,
		PingTimeout:  100 * time.Millisecond,
	}, nil)
	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer client.Close()

	select {
	case err := <-client.Errors():
		t.Errorf("unexpected error: %v", err)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestRedact(t *testing.T) {
	err := redact(errors.New("dial tcp: lookup ws.example.com?api_token=s3cr3t"), "s3cr3t")
	if strings.Contains(err.Error(), "s3cr3t") {
		t.Errorf("token leaked: %v", err)
	}

	orig := errors.New("connection refused")
	if got := redact(orig, "s3cr3t"); got != orig {
		t.Errorf("redact changed an error without the token: %v", got)
	}
}
