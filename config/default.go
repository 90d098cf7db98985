package config

import (
	"log/slog"
	"time"

	"github.com/gatehouse/gatehouse/db"
)

// NewDefaultConfig returns a Config with working defaults for every
// section. Provider credentials are left empty and must come from the
// environment.
func NewDefaultConfig() *Config {
	return &Config{
		DBPath:    "auth.db",
		PublicDir: "public/dist",
		Server: Server{
			Addr:                    ":3000",
			ShutdownGracefulTimeout: Duration{Duration: 15 * time.Second},
			ReadTimeout:             Duration{Duration: 2 * time.Second},
			ReadHeaderTimeout:       Duration{Duration: 2 * time.Second},
			WriteTimeout:            Duration{Duration: 3 * time.Second},
			IdleTimeout:             Duration{Duration: 1 * time.Minute},
			ClientIpProxyHeader:     "",
			EnableTLS:               false,
		},
		Session: Session{
			CookieName:   "gatehouse_session",
			Duration:     Duration{Duration: 24 * time.Hour},
			SecureCookie: true,
		},
		Verification: Verification{
			CodeExpiry: Duration{Duration: 24 * time.Hour},
		},
		Smtp: Smtp{
			Enabled:     false,
			Host:        "smtp.gmail.com",
			Port:        587,
			FromName:    "Gatehouse",
			FromAddress: "",
			LocalName:   "",
			AuthMethod:  "plain",
			UseTLS:      false,
			UseStartTLS: true,
			SendTimeout: Duration{Duration: 10 * time.Second},
		},
		OAuth2Providers: map[string]OAuth2Provider{
			db.ProviderGoogle: {
				Name:        db.ProviderGoogle,
				DisplayName: "Google",
				RedirectURL: "",
				AuthURL:     "https://accounts.google.com/o/oauth2/v2/auth",
				TokenURL:    "https://oauth2.googleapis.com/token",
				UserInfoURL: "https://www.googleapis.com/oauth2/v3/userinfo",
				Scopes: []string{
					"https://www.googleapis.com/auth/userinfo.email",
					"https://www.googleapis.com/auth/userinfo.profile",
				},
				PKCE: true,
			},
			db.ProviderMicrosoft: {
				Name:        db.ProviderMicrosoft,
				DisplayName: "Microsoft",
				RedirectURL: "",
				AuthURL:     "https://login.microsoftonline.com/common/oauth2/v2.0/authorize",
				TokenURL:    "https://login.microsoftonline.com/common/oauth2/v2.0/token",
				UserInfoURL: "https://graph.microsoft.com/v1.0/me",
				Scopes:      []string{"User.Read"},
				PKCE:        true,
			},
			db.ProviderAmazon: {
				Name:        db.ProviderAmazon,
				DisplayName: "Amazon",
				RedirectURL: "",
				AuthURL:     "https://www.amazon.com/ap/oa",
				TokenURL:    "https://api.amazon.com/auth/o2/token",
				UserInfoURL: "https://api.amazon.com/user/profile",
				Scopes:      []string{"profile"},
				PKCE:        false,
			},
			db.ProviderIDme: {
				Name:        db.ProviderIDme,
				DisplayName: "ID.me",
				RedirectURL: "",
				AuthURL:     "https://api.id.me/oauth/authorize",
				TokenURL:    "https://api.id.me/oauth/token",
				UserInfoURL: "https://api.id.me/api/public/v3/attributes.json",
				Scopes:      []string{"military", "disability", "student", "responder", "veteran"},
				PKCE:        false,
			},
		},
		Endpoints: Endpoints{
			Register:            "POST /api/auth/register",
			Verify:              "POST /api/auth/verify",
			ResendVerification:  "POST /api/auth/resend",
			Login:               "POST /api/auth/login",
			Logout:              "GET /api/auth/logout",
			Status:              "GET /api/auth/status",
			AuthWithOAuth2:      "POST /api/auth/oauth2",
			ListOAuth2Providers: "GET /api/auth/oauth2/providers",
		},
		Log: Log{
			Level: LogLevel{Level: slog.LevelInfo},
			Request: LogRequest{
				Activated:       true,
				URILength:       512,
				UserAgentLength: 256,
				RemoteIPLength:  64,
			},
		},
		Audit: Audit{
			ChanSize:      1000,
			FlushSize:     100,
			FlushInterval: Duration{Duration: 5 * time.Second},
			Retention:     Duration{Duration: 90 * 24 * time.Hour},
		},
		BlockIp: BlockIp{
			Enabled: true,
			Level:   "medium",
		},
		Janitor: Janitor{
			Interval: Duration{Duration: 10 * time.Minute},
		},
		Backup: Backup{
			Enabled:  false,
			Interval: Duration{Duration: 6 * time.Hour},
			Dir:      "backups",
			Keep:     8,
		},
	}
}
