package audit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/gatehouse/gatehouse/config"
	"github.com/gatehouse/gatehouse/db"
)

// Recorder consumes auth events from a channel and writes them to the
// audit log in batches. Recording never blocks a request: when the
// channel is full the event is dropped and counted against the caller's
// log stream instead.
type Recorder struct {
	eventChan      chan db.AuthEvent
	store          db.DbAuditLog
	logger         *slog.Logger
	configProvider *config.Provider

	ctx          context.Context
	cancel       context.CancelFunc
	shutdownDone chan struct{}
}

func New(configProvider *config.Provider, logger *slog.Logger, store db.DbAuditLog) (*Recorder, error) {
	if store == nil {
		return nil, fmt.Errorf("audit: store cannot be nil")
	}
	cfg := configProvider.Get()

	ctx, cancel := context.WithCancel(context.Background())
	return &Recorder{
		eventChan:      make(chan db.AuthEvent, cfg.Audit.ChanSize),
		store:          store,
		logger:         logger.With("daemon", "AuditRecorder"),
		configProvider: configProvider,
		ctx:            ctx,
		cancel:         cancel,
		shutdownDone:   make(chan struct{}),
	}, nil
}

func (r *Recorder) Name() string {
	return "AuditRecorder"
}

// Record queues one auth event. Missing ids and timestamps are filled
// in here so callers can pass sparse literals.
func (r *Recorder) Record(event db.AuthEvent) {
	if r.ctx.Err() != nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Created.IsZero() {
		event.Created = time.Now()
	}
	if event.UserID == "" {
		event.UserID = db.UserIDUnknown
	}

	select {
	case r.eventChan <- event:
	default:
		r.logger.Warn("audit channel full, dropping event",
			"action", event.Action, "status", event.Status)
	}
}

// Start begins the recorder's processing goroutine.
func (r *Recorder) Start() error {
	r.logger.Info("starting audit recorder")
	go r.process()
	return nil
}

// Stop drains queued events and flushes the final batch. The passed
// context bounds how long the caller is willing to wait.
func (r *Recorder) Stop(ctx context.Context) error {
	r.logger.Info("stopping audit recorder")
	r.cancel()

	select {
	case <-r.shutdownDone:
		return nil
	case <-ctx.Done():
		r.logger.Error("audit recorder shutdown timed out", "error", ctx.Err())
		return ctx.Err()
	}
}

func (r *Recorder) process() {
	defer close(r.shutdownDone)

	cfg := r.configProvider.Get()
	ticker := time.NewTicker(cfg.Audit.FlushInterval.Duration)
	defer ticker.Stop()

	batch := make([]db.AuthEvent, 0, cfg.Audit.FlushSize)

	flush := func(reason string) {
		if len(batch) == 0 {
			return
		}
		if err := r.store.InsertAuthEvents(batch); err != nil {
			r.logger.Error("failed to write audit batch",
				"error", err, "batch_size", len(batch), "reason", reason)
		}
		batch = batch[:0]
	}

	for {
		select {
		case event := <-r.eventChan:
			batch = append(batch, event)
			if len(batch) >= cfg.Audit.FlushSize {
				flush("batch_full")
			}

		case <-ticker.C:
			flush("ticker")

		case <-r.ctx.Done():
		drainLoop:
			for {
				select {
				case event := <-r.eventChan:
					batch = append(batch, event)
					if len(batch) >= cfg.Audit.FlushSize {
						flush("shutdown_batch_full")
					}
				default:
					break drainLoop
				}
			}
			flush("shutdown_final")
			return
		}
	}
}
