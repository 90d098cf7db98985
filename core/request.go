package core

import (
	"net"
	"net/http"
	"strings"
)

// MimeTypeJSON is the only request content type the API accepts.
const MimeTypeJSON = "application/json"

// ClientIP extracts the client IP address from the request. When a proxy
// header is configured, its first entry wins; otherwise the connection's
// remote address is used.
func (a *App) ClientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// RemoteAddr without a port, e.g. in tests
		ip = r.RemoteAddr
	}

	if header := a.Config().Server.ClientIpProxyHeader; header != "" {
		if forwarded := r.Header.Get(header); forwarded != "" {
			parts := strings.Split(forwarded, ",")
			ip = strings.TrimSpace(parts[0])
		}
	}
	return ip
}
