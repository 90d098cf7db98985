// Package janitor removes rows whose lifetime has passed: expired
// sessions and audit events older than the retention window.
package janitor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gatehouse/gatehouse/config"
	"github.com/gatehouse/gatehouse/db"
)

type Janitor struct {
	configProvider *config.Provider
	logger         *slog.Logger
	sessions       db.DbSession
	auditLog       db.DbAuditLog

	ctx          context.Context
	cancel       context.CancelFunc
	shutdownDone chan struct{}
}

func New(configProvider *config.Provider, logger *slog.Logger, store db.DbApp) (*Janitor, error) {
	if store == nil {
		return nil, fmt.Errorf("janitor: store cannot be nil")
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Janitor{
		configProvider: configProvider,
		logger:         logger.With("daemon", "Janitor"),
		sessions:       store,
		auditLog:       store,
		ctx:            ctx,
		cancel:         cancel,
		shutdownDone:   make(chan struct{}),
	}, nil
}

func (j *Janitor) Name() string {
	return "Janitor"
}

// Start begins periodic purging. The first sweep happens after one
// interval, not at startup, so boot stays fast.
func (j *Janitor) Start() error {
	j.logger.Info("starting janitor", "interval", j.configProvider.Get().Janitor.Interval.Duration)
	go j.run()
	return nil
}

func (j *Janitor) Stop(ctx context.Context) error {
	j.logger.Info("stopping janitor")
	j.cancel()

	select {
	case <-j.shutdownDone:
		return nil
	case <-ctx.Done():
		j.logger.Error("janitor shutdown timed out", "error", ctx.Err())
		return ctx.Err()
	}
}

func (j *Janitor) run() {
	defer close(j.shutdownDone)

	ticker := time.NewTicker(j.configProvider.Get().Janitor.Interval.Duration)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			j.sweep()
		case <-j.ctx.Done():
			return
		}
	}
}

// sweep runs both purges. A failure in one does not stop the other.
func (j *Janitor) sweep() {
	now := time.Now()

	sessions, err := j.sessions.PurgeExpiredSessions(now)
	if err != nil {
		j.logger.Error("failed to purge expired sessions", "error", err)
	}

	retention := j.configProvider.Get().Audit.Retention.Duration
	events, err := j.auditLog.PurgeAuthEventsBefore(now.Add(-retention))
	if err != nil {
		j.logger.Error("failed to purge aged audit events", "error", err)
	}

	if sessions > 0 || events > 0 {
		j.logger.Info("janitor sweep complete", "sessions_purged", sessions, "audit_events_purged", events)
	}
}
