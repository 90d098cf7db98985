package gatehouse

import (
	"fmt"
	"net/http"

	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/gatehouse/gatehouse/audit"
	"github.com/gatehouse/gatehouse/backup"
	"github.com/gatehouse/gatehouse/cache/ristretto"
	"github.com/gatehouse/gatehouse/config"
	"github.com/gatehouse/gatehouse/core"
	"github.com/gatehouse/gatehouse/core/prerouter"
	"github.com/gatehouse/gatehouse/db/zombiezen"
	"github.com/gatehouse/gatehouse/janitor"
	"github.com/gatehouse/gatehouse/mail"
	"github.com/gatehouse/gatehouse/router"
	"github.com/gatehouse/gatehouse/router/servemux"
	"github.com/gatehouse/gatehouse/server"
)

// New assembles the application around an existing SQLite pool: config,
// database layer, core App, routes, pre-router middleware and the
// background daemons. The returned Server is ready to Run.
//
// The caller owns the pool lifecycle. Sharing one pool between
// gatehouse and any other database access in the process avoids
// SQLITE_BUSY errors.
func New(configPath string, pool *sqlitex.Pool, opts ...core.Option) (*core.App, *server.Server, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	configProvider := config.NewProvider(cfg)

	store, err := zombiezen.New(pool)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database layer: %w", err)
	}

	allOpts := []core.Option{
		core.WithConfigProvider(configProvider),
		core.WithDbApp(store),
	}
	allOpts = append(allOpts, opts...)

	app, err := core.NewApp(allOpts...)
	if err != nil {
		return nil, nil, err
	}

	// Defaults for the pluggable pieces no option supplied.
	if app.Router() == nil {
		app.SetRouter(servemux.New())
	}
	if app.Cache() == nil {
		c, err := ristretto.New[any]("medium")
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize cache: %w", err)
		}
		app.SetCache(c)
	}

	if cfg.Smtp.Enabled {
		mailer, err := mail.New(cfg.Smtp)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create mailer: %w", err)
		}
		app.SetMailer(mailer)
	}

	// The audit recorder doubles as a daemon: handlers queue events,
	// the daemon flushes them in batches.
	recorder, err := audit.New(configProvider, app.Logger(), store)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create audit recorder: %w", err)
	}
	app.SetAuditor(recorder)

	if err := route(cfg, app); err != nil {
		return nil, nil, err
	}

	jan, err := janitor.New(configProvider, app.Logger(), store)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create janitor: %w", err)
	}

	daemons := []server.Daemon{recorder, jan}
	if cfg.Backup.Enabled {
		bkp, err := backup.New(configProvider, app.Logger(), pool)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create backup daemon: %w", err)
		}
		daemons = append(daemons, bkp)
	}

	srv := server.NewServer(configProvider, preRouterHandler(app), app.Logger(), daemons...)

	return app, srv, nil
}

// preRouterHandler wraps the router with the middleware that must run
// before routing: request logging outermost, then IP blocking.
func preRouterHandler(app *core.App) http.Handler {
	return router.NewChain(app.Router()).
		WithMiddleware(
			prerouter.NewRequestLog(app).Execute,
			prerouter.NewBlockIp(app).Execute,
		).
		Handler()
}
