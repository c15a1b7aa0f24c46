package poller

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/rickgao/eod-data/internal/api"
	"github.com/rickgao/eod-data/internal/model"
)

func testBatch(t *testing.T, symbols ...string) model.Batch {
	t.Helper()
	var insts []model.Instrument
	for _, s := range symbols {
		inst, err := model.ParseInstrument(s)
		if err != nil {
			t.Fatalf("ParseInstrument(%q): %v", s, err)
		}
		insts = append(insts, inst)
	}
	batch, err := model.NewBatch(insts)
	if err != nil {
		t.Fatalf("NewBatch: %v", err)
	}
	return batch
}

// quoteServer answers every real-time request with one record per requested symbol.
func quoteServer(t *testing.T, requests *atomic.Int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		symbols := []string{strings.TrimPrefix(r.URL.Path, "/real-time/")}
		if s := r.URL.Query().Get("s"); s != "" {
			symbols = append(symbols, strings.Split(s, ",")...)
		}
		parts := make([]string, len(symbols))
		for i, sym := range symbols {
			parts[i] = fmt.Sprintf(`{"code":%q,"timestamp":1705320000,"close":1.5}`, sym)
		}
		w.Header().Set("Content-Type", "application/json")
		if len(parts) == 1 {
			fmt.Fprint(w, parts[0])
			return
		}
		fmt.Fprint(w, "["+strings.Join(parts, ",")+"]")
	}))
}

func TestPoller_Poll(t *testing.T) {
	var requests atomic.Int32
	server := quoteServer(t, &requests)
	defer server.Close()

	client, err := api.NewClient(server.URL, "test-token", api.WithBatchSize(2))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	var got []Snapshot
	handler := SnapshotHandlerFunc(func(_ context.Context, s Snapshot) error {
		got = append(got, s)
		return nil
	})

	batch := testBatch(t, "AAPL.US", "MSFT.US", "VOD.LSE")
	p := New(Config{Interval: time.Hour, Timeout: 5 * time.Second}, client, batch, handler, nil)
	fixed := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return fixed }
	p.ctx = context.Background()

	p.poll()

	if got := requests.Load(); got != 2 {
		t.Errorf("requests = %d, want 2", got)
	}
	if len(got) != 1 {
		t.Fatalf("snapshots = %d, want 1", len(got))
	}
	snap := got[0]
	if len(snap.Records) != 3 {
		t.Errorf("records = %d, want 3", len(snap.Records))
	}
	if snap.Records[2]["code"] != "VOD.LSE" {
		t.Errorf("records[2].code = %v, want VOD.LSE", snap.Records[2]["code"])
	}
	if snap.RunID == uuid.Nil {
		t.Error("RunID is nil")
	}
	if !snap.FetchedAt.Equal(fixed) {
		t.Errorf("FetchedAt = %v, want %v", snap.FetchedAt, fixed)
	}

	stats := p.Stats()
	if stats.Cycles != 1 || stats.Failures != 0 || stats.Records != 3 {
		t.Errorf("Stats() = %+v, want 1 cycle, 0 failures, 3 records", stats)
	}
}

type fakeSource struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeSource) RealTimeBatch(context.Context, model.Batch) ([]model.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return []model.Record{{"code": "AAPL.US"}}, nil
}

func TestPoller_FailureNotRetried(t *testing.T) {
	source := &fakeSource{err: errors.New("provider down")}
	var handled atomic.Bool
	handler := SnapshotHandlerFunc(func(context.Context, Snapshot) error {
		handled.Store(true)
		return nil
	})

	p := New(Config{Interval: time.Hour}, source, testBatch(t, "AAPL.US"), handler, nil)
	p.ctx = context.Background()
	p.poll()

	if source.calls != 1 {
		t.Errorf("source calls = %d, want 1", source.calls)
	}
	if handled.Load() {
		t.Error("handler called after failed fetch")
	}
	if stats := p.Stats(); stats.Failures != 1 || stats.Records != 0 {
		t.Errorf("Stats() = %+v, want 1 failure, 0 records", stats)
	}
}

func TestPoller_HandlerError(t *testing.T) {
	source := &fakeSource{}
	handler := SnapshotHandlerFunc(func(context.Context, Snapshot) error {
		return errors.New("db unavailable")
	})

	p := New(Config{Interval: time.Hour}, source, testBatch(t, "AAPL.US"), handler, nil)
	p.ctx = context.Background()
	p.poll()

	if stats := p.Stats(); stats.Failures != 1 {
		t.Errorf("Failures = %d, want 1", stats.Failures)
	}
}

func TestPoller_StartStop(t *testing.T) {
	source := &fakeSource{}
	var called atomic.Int32
	handler := SnapshotHandlerFunc(func(context.Context, Snapshot) error {
		called.Add(1)
		return nil
	})

	p := New(Config{Interval: 50 * time.Millisecond, Timeout: time.Second}, source, testBatch(t, "AAPL.US"), handler, nil)

	ctx := context.Background()
	if err := p.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	// Wait for the immediate poll and at least one tick.
	time.Sleep(120 * time.Millisecond)

	stopCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	if err := p.Stop(stopCtx); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	if got := called.Load(); got < 2 {
		t.Errorf("handler calls = %d, want >= 2", got)
	}
}

func TestNew_Defaults(t *testing.T) {
	p := New(Config{}, &fakeSource{}, testBatch(t, "AAPL.US"), nil, nil)
	if p.cfg != DefaultConfig() {
		t.Errorf("cfg = %+v, want %+v", p.cfg, DefaultConfig())
	}
}
