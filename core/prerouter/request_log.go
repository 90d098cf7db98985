package prerouter

import (
	"net/http"
	"strings"
	"time"

	"log/slog"

	"github.com/gatehouse/gatehouse/core"
)

const logMessage = "http_request"

// cutStr limits string length by adding ellipsis if needed
func cutStr(str string, max int) string {
	if len(str) > max {
		return str[:max] + "..."
	}
	return str
}

var logType = slog.String("type", "request")

// RequestLog is middleware that logs HTTP request details
type RequestLog struct {
	app *core.App
}

// NewRequestLog creates a new request logging middleware instance
func NewRequestLog(app *core.App) *RequestLog {
	return &RequestLog{
		app: app,
	}
}

// responseRecorder wraps http.ResponseWriter to capture the status
// code. Initialized to 200 because handlers may write the body without
// ever calling WriteHeader.
type responseRecorder struct {
	http.ResponseWriter
	status int
}

func (r *responseRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Execute wraps the next handler with request logging
func (r *RequestLog) Execute(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if !r.app.Config().Log.Request.Activated {
			next.ServeHTTP(w, req)
			return
		}

		start := time.Now()

		rec := &responseRecorder{
			ResponseWriter: w,
			status:         http.StatusOK,
		}

		next.ServeHTTP(rec, req)

		duration := time.Since(start)

		limits := r.app.Config().Log.Request
		r.app.Logger().Info(logMessage,
			logType,
			slog.String("method", strings.ToUpper(req.Method)),
			slog.String("uri", cutStr(req.URL.RequestURI(), limits.URILength)),
			slog.Int("status", rec.status),
			slog.String("duration", duration.String()),
			slog.String("remote_ip", cutStr(r.app.ClientIP(req), limits.RemoteIPLength)),
			slog.String("user_agent", cutStr(req.UserAgent(), limits.UserAgentLength)),
			slog.String("host", cutStr(req.Host, limits.RemoteIPLength)),
			slog.String("proto", req.Proto),
			slog.Int64("content_length", req.ContentLength),
		)
	})
}
