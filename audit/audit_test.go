package audit

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/gatehouse/gatehouse/config"
	"github.com/gatehouse/gatehouse/db"
	"github.com/gatehouse/gatehouse/db/mock"
)

type capture struct {
	mu      sync.Mutex
	batches [][]db.AuthEvent
}

func (c *capture) insert(batch []db.AuthEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	copied := make([]db.AuthEvent, len(batch))
	copy(copied, batch)
	c.batches = append(c.batches, copied)
	return nil
}

func (c *capture) events() []db.AuthEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	var all []db.AuthEvent
	for _, b := range c.batches {
		all = append(all, b...)
	}
	return all
}

func newTestRecorder(t *testing.T, cfg *config.Config) (*Recorder, *capture) {
	t.Helper()
	sink := &capture{}
	store := &mock.Db{InsertAuthEventsFunc: sink.insert}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	recorder, err := New(config.NewProvider(cfg), logger, store)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return recorder, sink
}

func TestRecorderFlushesOnStop(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.Audit.FlushInterval = config.Duration{Duration: time.Hour}

	recorder, sink := newTestRecorder(t, cfg)
	if err := recorder.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	recorder.Record(db.AuthEvent{UserID: "u1", Action: db.ActionLogin, Status: "success"})
	recorder.Record(db.AuthEvent{Action: db.ActionLogin, Status: "failure"})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := recorder.Stop(ctx); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	events := sink.events()
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].ID == "" {
		t.Error("event id not assigned")
	}
	if events[0].Created.IsZero() {
		t.Error("event timestamp not assigned")
	}
	if events[1].UserID != db.UserIDUnknown {
		t.Errorf("empty user id not replaced with sentinel, got %q", events[1].UserID)
	}
}

func TestRecorderFlushesWhenBatchFull(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.Audit.FlushSize = 2
	cfg.Audit.FlushInterval = config.Duration{Duration: time.Hour}

	recorder, sink := newTestRecorder(t, cfg)
	if err := recorder.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	for i := 0; i < 4; i++ {
		recorder.Record(db.AuthEvent{UserID: "u1", Action: db.ActionVerify, Status: "success"})
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if len(sink.events()) >= 4 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if got := len(sink.events()); got != 4 {
		t.Fatalf("got %d events before stop, want 4", got)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := recorder.Stop(ctx); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
}

func TestRecordAfterStopIsDropped(t *testing.T) {
	cfg := config.NewDefaultConfig()
	recorder, sink := newTestRecorder(t, cfg)
	if err := recorder.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := recorder.Stop(ctx); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	recorder.Record(db.AuthEvent{UserID: "u1", Action: db.ActionLogin, Status: "success"})
	if len(sink.events()) != 0 {
		t.Error("event recorded after shutdown")
	}
}
