package config

import (
	"fmt"
	"net"
	"strings"
)

func Validate(cfg *Config) error {
	if err := validateServer(&cfg.Server); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := validateSession(&cfg.Session); err != nil {
		return fmt.Errorf("session: %w", err)
	}
	if cfg.Verification.CodeExpiry.Duration <= 0 {
		return fmt.Errorf("verification: code expiry must be positive")
	}
	if err := validateBlockIp(&cfg.BlockIp); err != nil {
		return fmt.Errorf("block_ip: %w", err)
	}
	if cfg.Audit.ChanSize <= 0 || cfg.Audit.FlushSize <= 0 {
		return fmt.Errorf("audit: chan size and flush size must be positive")
	}
	for name, p := range cfg.OAuth2Providers {
		if err := validateProvider(name, &p); err != nil {
			return fmt.Errorf("oauth2 provider %q: %w", name, err)
		}
	}
	return nil
}

// validateServer normalizes Addr to host:port, defaulting the host to
// localhost when only ":port" is given.
func validateServer(server *Server) error {
	if server.Addr == "" {
		return fmt.Errorf("address cannot be empty")
	}

	host, port, err := net.SplitHostPort(server.Addr)
	if err != nil {
		if strings.HasPrefix(server.Addr, ":") {
			port = strings.TrimPrefix(server.Addr, ":")
			host = "localhost"
		} else {
			return fmt.Errorf("invalid address %q: %w", server.Addr, err)
		}
	}

	if port == "" {
		return fmt.Errorf("address %q must include a port", server.Addr)
	}

	server.Addr = net.JoinHostPort(host, port)

	if _, err := net.LookupPort("tcp", port); err != nil {
		return fmt.Errorf("invalid port %q in address %q: %w", port, server.Addr, err)
	}

	if server.EnableTLS && (server.CertFile == "" || server.KeyFile == "") {
		return fmt.Errorf("TLS enabled but cert or key file missing")
	}

	return nil
}

func validateSession(s *Session) error {
	if s.CookieName == "" {
		return fmt.Errorf("cookie name cannot be empty")
	}
	if s.Duration.Duration <= 0 {
		return fmt.Errorf("duration must be positive")
	}
	return nil
}

func validateBlockIp(b *BlockIp) error {
	if !b.Enabled {
		return nil
	}
	switch b.Level {
	case "low", "medium", "high":
		return nil
	}
	return fmt.Errorf("unknown level %q", b.Level)
}

func validateProvider(name string, p *OAuth2Provider) error {
	if p.Name != name {
		return fmt.Errorf("name %q does not match map key", p.Name)
	}
	if p.AuthURL == "" || p.TokenURL == "" || p.UserInfoURL == "" {
		return fmt.Errorf("auth, token and userinfo URLs are all required")
	}
	return nil
}
