package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gatehouse/gatehouse/db"
)

// Duration wraps time.Duration so durations can be written as "24h" or
// "90s" in TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// LogLevel wraps slog.Level for TOML round-tripping ("debug", "INFO", ...).
type LogLevel struct {
	slog.Level
}

func (l *LogLevel) UnmarshalText(text []byte) error {
	if err := l.Level.UnmarshalText(text); err != nil {
		return fmt.Errorf("invalid log level %q: %w", string(text), err)
	}
	return nil
}

func (l LogLevel) MarshalText() ([]byte, error) {
	return l.Level.MarshalText()
}

type Config struct {
	DBPath    string
	PublicDir string

	Server          Server
	Session         Session
	Verification    Verification
	Smtp            Smtp
	OAuth2Providers map[string]OAuth2Provider
	Endpoints       Endpoints
	Log             Log
	Audit           Audit
	BlockIp         BlockIp
	Janitor         Janitor
	Backup          Backup
}

type Server struct {
	Addr                    string
	ShutdownGracefulTimeout Duration
	ReadTimeout             Duration
	ReadHeaderTimeout       Duration
	WriteTimeout            Duration
	IdleTimeout             Duration

	// ClientIpProxyHeader names the header carrying the real client IP
	// when the service sits behind a trusted proxy. Empty means use the
	// connection's remote address.
	ClientIpProxyHeader string

	EnableTLS bool
	CertFile  string
	KeyFile   string
}

// Session controls the opaque server-side session handles. Expiry is
// absolute: a session ends Duration after login regardless of activity.
type Session struct {
	CookieName string
	Duration   Duration
	// SecureCookie should only be disabled for plain-HTTP development.
	SecureCookie bool
}

// Verification controls the emailed one-time codes.
type Verification struct {
	CodeExpiry Duration
}

type Smtp struct {
	Enabled     bool
	Host        string
	Port        int
	FromName    string
	FromAddress string
	LocalName   string
	AuthMethod  string
	UseTLS      bool
	UseStartTLS bool
	Username    string
	Password    string
	SendTimeout Duration
}

// OAuth2Provider describes one upstream identity provider. ClientID and
// ClientSecret are filled from the environment, never from the TOML file.
type OAuth2Provider struct {
	Name         string
	DisplayName  string
	RedirectURL  string
	AuthURL      string
	TokenURL     string
	UserInfoURL  string
	Scopes       []string
	PKCE         bool
	ClientID     string
	ClientSecret string
}

type Endpoints struct {
	Register            string
	Verify              string
	ResendVerification  string
	Login               string
	Logout              string
	Status              string
	AuthWithOAuth2      string
	ListOAuth2Providers string
}

type Log struct {
	Level   LogLevel
	Request LogRequest
}

// LogRequest bounds the sizes of logged request fields so a hostile
// client cannot bloat the log stream.
type LogRequest struct {
	Activated       bool
	URILength       int
	UserAgentLength int
	RemoteIPLength  int
}

// Audit controls the buffered auth event writer. Events beyond ChanSize
// waiting to be flushed are dropped, never blocked on.
type Audit struct {
	ChanSize      int
	FlushSize     int
	FlushInterval Duration
	Retention     Duration
}

type BlockIp struct {
	Enabled bool
	// Level selects the blocking aggressiveness: "low", "medium" or "high".
	Level string
}

// Janitor controls periodic removal of expired sessions and aged-out
// auth events.
type Janitor struct {
	Interval Duration
}

type Backup struct {
	Enabled  bool
	Interval Duration
	Dir      string
	// Keep is the number of snapshot files retained, oldest pruned first.
	Keep int
}

// Environment variable names for provider credentials. A provider whose
// variables are unset is disabled at startup.
const (
	EnvGoogleClientID        = "GOOGLE_CLIENT_ID"
	EnvGoogleClientSecret    = "GOOGLE_CLIENT_SECRET"
	EnvMicrosoftClientID     = "MICROSOFT_CLIENT_ID"
	EnvMicrosoftClientSecret = "MICROSOFT_CLIENT_SECRET"
	EnvAmazonClientID        = "AMAZON_CLIENT_ID"
	EnvAmazonClientSecret    = "AMAZON_CLIENT_SECRET"
	EnvIDmeClientID          = "IDME_CLIENT_ID"
	EnvIDmeClientSecret      = "IDME_CLIENT_SECRET"
	EnvIDmeRedirectURI       = "IDME_REDIRECT_URI"
)

// hasCredentials reports whether the provider can actually be used.
func (p *OAuth2Provider) hasCredentials() bool {
	return p.ClientID != "" && p.ClientSecret != ""
}

// EnabledProviderNames returns the names of configured providers with
// credentials, in the canonical order of db.Providers.
func (c *Config) EnabledProviderNames() []string {
	var names []string
	for _, name := range db.Providers {
		p, ok := c.OAuth2Providers[name]
		if !ok {
			continue
		}
		if p.hasCredentials() {
			names = append(names, name)
		}
	}
	return names
}
