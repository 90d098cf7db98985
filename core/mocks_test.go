package core

import (
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/gatehouse/gatehouse/config"
	"github.com/gatehouse/gatehouse/db"
)

// mailerRecorder captures outgoing verification codes instead of
// talking SMTP.
type mailerRecorder struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

type sentMail struct {
	email string
	code  string
}

func (m *mailerRecorder) SendVerificationCode(email, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{email: email, code: code})
	return nil
}

func (m *mailerRecorder) last() (sentMail, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return sentMail{}, false
	}
	return m.sent[len(m.sent)-1], true
}

// auditRecorder captures audit events synchronously.
type auditRecorder struct {
	mu     sync.Mutex
	events []db.AuthEvent
}

func (a *auditRecorder) Record(event db.AuthEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, event)
}

func (a *auditRecorder) last() (db.AuthEvent, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.events) == 0 {
		return db.AuthEvent{}, false
	}
	return a.events[len(a.events)-1], true
}

// newTestApp builds an App wired to the given store with recording
// fakes for mail and audit.
func newTestApp(t *testing.T, store db.DbApp, cfg *config.Config) (*App, *auditRecorder, *mailerRecorder) {
	t.Helper()
	if cfg == nil {
		cfg = config.NewDefaultConfig()
	}

	auditor := &auditRecorder{}
	mailer := &mailerRecorder{}

	app, err := NewApp(
		WithConfigProvider(config.NewProvider(cfg)),
		WithDbApp(store),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithMailer(mailer),
		WithAuditor(auditor),
	)
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	return app, auditor, mailer
}
