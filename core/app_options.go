package core

import (
	"log/slog"

	"github.com/gatehouse/gatehouse/cache"
	"github.com/gatehouse/gatehouse/config"
	"github.com/gatehouse/gatehouse/db"
	"github.com/gatehouse/gatehouse/router"
)

type Option func(*App)

// WithDbApp sets the database implementation for auth and sessions
func WithDbApp(d db.DbApp) Option {
	return func(a *App) {
		a.dbAuth = d
		a.dbSession = d
	}
}

// WithCache sets the cache implementation
func WithCache(c cache.Cache[string, any]) Option {
	return func(a *App) {
		a.cache = c
	}
}

// WithRouter sets the router implementation
func WithRouter(r router.Router) Option {
	return func(a *App) {
		a.router = r
	}
}

// WithConfigProvider sets the application's configuration provider.
func WithConfigProvider(p *config.Provider) Option {
	return func(a *App) {
		a.configProvider = p
	}
}

// WithLogger sets the logger implementation
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		a.logger = l
	}
}

// WithMailer sets the verification mail sender
func WithMailer(m VerificationMailer) Option {
	return func(a *App) {
		a.mailer = m
	}
}

// WithAuditor sets the auth event recorder
func WithAuditor(rec AuthAuditor) Option {
	return func(a *App) {
		a.auditor = rec
	}
}
