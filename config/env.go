package config

import (
	"github.com/caarlos0/env/v11"

	"github.com/gatehouse/gatehouse/db"
)

// Secrets holds the credential material sourced from the environment.
// Keeping secrets out of the TOML file means the file can be committed
// and diffed freely.
type Secrets struct {
	GoogleClientID        string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret    string `env:"GOOGLE_CLIENT_SECRET"`
	MicrosoftClientID     string `env:"MICROSOFT_CLIENT_ID"`
	MicrosoftClientSecret string `env:"MICROSOFT_CLIENT_SECRET"`
	AmazonClientID        string `env:"AMAZON_CLIENT_ID"`
	AmazonClientSecret    string `env:"AMAZON_CLIENT_SECRET"`
	IDmeClientID          string `env:"IDME_CLIENT_ID"`
	IDmeClientSecret      string `env:"IDME_CLIENT_SECRET"`
	IDmeRedirectURI       string `env:"IDME_REDIRECT_URI"`

	SmtpUsername string `env:"SMTP_USERNAME"`
	SmtpPassword string `env:"SMTP_PASSWORD"`
}

func LoadSecrets() (*Secrets, error) {
	var s Secrets
	if err := env.Parse(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Apply copies credentials into cfg and removes providers that ended up
// without credentials. A deployment only offers the providers it can
// actually complete a flow with.
func (s *Secrets) Apply(cfg *Config) {
	setCreds := func(name, id, secret string) {
		p, ok := cfg.OAuth2Providers[name]
		if !ok {
			return
		}
		p.ClientID = id
		p.ClientSecret = secret
		cfg.OAuth2Providers[name] = p
	}

	setCreds(db.ProviderGoogle, s.GoogleClientID, s.GoogleClientSecret)
	setCreds(db.ProviderMicrosoft, s.MicrosoftClientID, s.MicrosoftClientSecret)
	setCreds(db.ProviderAmazon, s.AmazonClientID, s.AmazonClientSecret)
	setCreds(db.ProviderIDme, s.IDmeClientID, s.IDmeClientSecret)

	if p, ok := cfg.OAuth2Providers[db.ProviderIDme]; ok && s.IDmeRedirectURI != "" {
		p.RedirectURL = s.IDmeRedirectURI
		cfg.OAuth2Providers[db.ProviderIDme] = p
	}

	if s.SmtpUsername != "" {
		cfg.Smtp.Username = s.SmtpUsername
	}
	if s.SmtpPassword != "" {
		cfg.Smtp.Password = s.SmtpPassword
	}

	for name, p := range cfg.OAuth2Providers {
		if !p.hasCredentials() {
			delete(cfg.OAuth2Providers, name)
		}
	}
}
