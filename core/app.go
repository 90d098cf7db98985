package core

import (
	"fmt"
	"log/slog"

	"github.com/gatehouse/gatehouse/cache"
	"github.com/gatehouse/gatehouse/config"
	"github.com/gatehouse/gatehouse/db"
	"github.com/gatehouse/gatehouse/router"
)

// VerificationMailer delivers one-time verification codes. Satisfied by
// *mail.Mailer; tests substitute a recording fake.
type VerificationMailer interface {
	SendVerificationCode(email, code string) error
}

// AuthAuditor queues auth events for the append-only audit log.
// Satisfied by *audit.Recorder. Record must never block the request.
type AuthAuditor interface {
	Record(event db.AuthEvent)
}

// App is the application wide context.
// db connections and permanent structs should go here.
//
// All handlers and middleware have App as receiver, so every heavy
// object is built once and shared.
type App struct {
	dbAuth         db.DbAuth
	dbSession      db.DbSession
	router         router.Router
	cache          cache.Cache[string, any]
	configProvider *config.Provider
	logger         *slog.Logger
	validator      Validator
	mailer         VerificationMailer
	auditor        AuthAuditor
}

func NewApp(opts ...Option) (*App, error) {
	a := &App{}
	for _, opt := range opts {
		opt(a)
	}

	if a.configProvider == nil {
		return nil, fmt.Errorf("config provider is required (use WithConfigProvider)")
	}
	if a.dbAuth == nil || a.dbSession == nil {
		return nil, fmt.Errorf("database is required (use WithDbApp)")
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	if a.validator == nil {
		a.validator = NewValidator()
	}
	if a.auditor == nil {
		a.auditor = noopAuditor{}
	}
	if a.mailer == nil {
		a.mailer = &logMailer{logger: a.logger}
	}

	return a, nil
}

// noopAuditor discards events. Used when no recorder is wired, e.g. in
// handler tests that do not assert on the audit trail.
type noopAuditor struct{}

func (noopAuditor) Record(db.AuthEvent) {}

// logMailer stands in when SMTP is not configured. Codes go to the log
// so local development works without a mail server.
type logMailer struct {
	logger *slog.Logger
}

func (m *logMailer) SendVerificationCode(email, code string) error {
	m.logger.Info("smtp disabled, verification code not mailed", "email", email, "code", code)
	return nil
}

// Router returns the application's router instance
func (a *App) Router() router.Router {
	return a.router
}

func (a *App) SetRouter(r router.Router) {
	a.router = r
}

func (a *App) DbAuth() db.DbAuth {
	return a.dbAuth
}

func (a *App) DbSession() db.DbSession {
	return a.dbSession
}

// SetDb sets the database interfaces for auth and sessions
func (a *App) SetDb(dbApp db.DbApp) {
	if dbApp == nil {
		panic("DbApp cannot be nil")
	}
	a.dbAuth = dbApp
	a.dbSession = dbApp
}

func (a *App) Logger() *slog.Logger {
	return a.logger
}

func (a *App) SetLogger(l *slog.Logger) {
	a.logger = l
}

func (a *App) Cache() cache.Cache[string, any] {
	return a.cache
}

func (a *App) SetCache(c cache.Cache[string, any]) {
	a.cache = c
}

func (a *App) Config() *config.Config {
	return a.configProvider.Get()
}

func (a *App) Mailer() VerificationMailer {
	return a.mailer
}

func (a *App) SetMailer(m VerificationMailer) {
	a.mailer = m
}

func (a *App) Auditor() AuthAuditor {
	return a.auditor
}

func (a *App) SetAuditor(rec AuthAuditor) {
	a.auditor = rec
}

// Validator returns the validator instance
func (a *App) Validator() Validator {
	return a.validator
}
