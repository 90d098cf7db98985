package gatehouse

// Helpers to create SQLite connection pools with defaults that work for
// gatehouse (WAL mode, busy timeout). If your application accesses the
// database alongside gatehouse, create one pool here and share it to
// avoid SQLITE_BUSY errors.

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/gatehouse/gatehouse/core"
	"github.com/gatehouse/gatehouse/db/zombiezen"
	"github.com/gatehouse/gatehouse/migrations"
)

// WithZombiezenPool configures the App to use the zombiezen SQLite
// implementation with an existing pool. The caller owns the pool
// lifecycle.
func WithZombiezenPool(pool *sqlitex.Pool) core.Option {
	dbInstance, err := zombiezen.New(pool)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize zombiezen DB with existing pool: %v", err))
	}
	return core.WithDbApp(dbInstance)
}

// NewZombiezenPool creates a pool with reasonable defaults. The default
// open flags already enable WAL mode.
func NewZombiezenPool(dbPath string) (*sqlitex.Pool, error) {
	poolSize := runtime.NumCPU()
	initString := fmt.Sprintf("file:%s", dbPath)

	pool, err := sqlitex.NewPool(initString, sqlitex.PoolOptions{
		PoolSize: poolSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create default zombiezen pool at %s: %w", dbPath, err)
	}
	return pool, nil
}

var explicitBusyTimeout = 5 * time.Second

// NewZombiezenPerformancePool creates a pool with explicit PRAGMA
// settings in the DSN. busy_timeout in the DSN is in milliseconds.
func NewZombiezenPerformancePool(dbPath string) (*sqlitex.Pool, error) {
	poolSize := runtime.NumCPU()

	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=%d&_foreign_keys=off",
		dbPath,
		explicitBusyTimeout.Milliseconds(),
	)

	pool, err := sqlitex.NewPool(dsn, sqlitex.PoolOptions{
		PoolSize: poolSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create performance zombiezen pool at %s using DSN '%s': %w", dbPath, dsn, err)
	}
	return pool, nil
}

// ApplyMigrations runs every embedded schema file against the pool.
// The statements use CREATE TABLE IF NOT EXISTS, so applying them to an
// existing database is safe.
func ApplyMigrations(pool *sqlitex.Pool) error {
	conn, err := pool.Take(context.Background())
	if err != nil {
		return fmt.Errorf("failed to take connection for migrations: %w", err)
	}
	defer pool.Put(conn)

	return zombiezen.ApplyMigrations(conn, migrations.Schema())
}
