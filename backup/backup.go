// Package backup periodically snapshots the SQLite database with
// VACUUM INTO. Snapshots are plain database files; restoring is
// copying one over the live path while the service is down.
package backup

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/gatehouse/gatehouse/config"
)

const snapshotPrefix = "gatehouse-"
const snapshotSuffix = ".db"

type Daemon struct {
	configProvider *config.Provider
	logger         *slog.Logger
	pool           *sqlitex.Pool

	ctx          context.Context
	cancel       context.CancelFunc
	shutdownDone chan struct{}
}

func New(configProvider *config.Provider, logger *slog.Logger, pool *sqlitex.Pool) (*Daemon, error) {
	if pool == nil {
		return nil, fmt.Errorf("backup: pool cannot be nil")
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Daemon{
		configProvider: configProvider,
		logger:         logger.With("daemon", "Backup"),
		pool:           pool,
		ctx:            ctx,
		cancel:         cancel,
		shutdownDone:   make(chan struct{}),
	}, nil
}

func (d *Daemon) Name() string {
	return "Backup"
}

func (d *Daemon) Start() error {
	cfg := d.configProvider.Get().Backup
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return fmt.Errorf("backup: cannot create snapshot dir %s: %w", cfg.Dir, err)
	}
	d.logger.Info("starting backup daemon", "interval", cfg.Interval.Duration, "dir", cfg.Dir, "keep", cfg.Keep)
	go d.run()
	return nil
}

func (d *Daemon) Stop(ctx context.Context) error {
	d.logger.Info("stopping backup daemon")
	d.cancel()

	select {
	case <-d.shutdownDone:
		return nil
	case <-ctx.Done():
		d.logger.Error("backup daemon shutdown timed out", "error", ctx.Err())
		return ctx.Err()
	}
}

func (d *Daemon) run() {
	defer close(d.shutdownDone)

	ticker := time.NewTicker(d.configProvider.Get().Backup.Interval.Duration)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := d.snapshot(); err != nil {
				d.logger.Error("backup failed", "error", err)
			}
		case <-d.ctx.Done():
			return
		}
	}
}

// snapshot writes one consistent copy of the database and prunes old
// snapshots past the retention count.
func (d *Daemon) snapshot() error {
	cfg := d.configProvider.Get().Backup

	name := snapshotPrefix + time.Now().UTC().Format("20060102T150405Z") + snapshotSuffix
	target := filepath.Join(cfg.Dir, name)

	conn, err := d.pool.Take(d.ctx)
	if err != nil {
		return fmt.Errorf("backup: cannot take connection: %w", err)
	}
	defer d.pool.Put(conn)

	// VACUUM INTO produces a compacted, consistent copy without
	// blocking writers for the whole duration.
	err = sqlitex.ExecuteTransient(conn, "VACUUM INTO ?;", &sqlitex.ExecOptions{
		Args: []any{target},
	})
	if err != nil {
		return fmt.Errorf("backup: vacuum into %s: %w", target, err)
	}
	d.logger.Info("snapshot written", "path", target)

	if err := pruneSnapshots(cfg.Dir, cfg.Keep); err != nil {
		d.logger.Error("failed to prune old snapshots", "error", err)
	}
	return nil
}

// pruneSnapshots deletes the oldest snapshot files beyond keep. The
// timestamped names sort lexicographically in age order.
func pruneSnapshots(dir string, keep int) error {
	if keep <= 0 {
		return nil
	}

	matches, err := filepath.Glob(filepath.Join(dir, snapshotPrefix+"*"+snapshotSuffix))
	if err != nil {
		return err
	}
	if len(matches) <= keep {
		return nil
	}

	sort.Strings(matches)
	for _, stale := range matches[:len(matches)-keep] {
		if err := os.Remove(stale); err != nil {
			return err
		}
	}
	return nil
}
