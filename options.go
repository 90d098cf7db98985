package gatehouse

import (
	"log/slog"
	"os"

	phuslog "github.com/phuslu/log"

	"github.com/gatehouse/gatehouse/cache/ristretto"
	"github.com/gatehouse/gatehouse/core"
	"github.com/gatehouse/gatehouse/router/httprouter"
	"github.com/gatehouse/gatehouse/router/servemux"
)

func WithRouterServeMux() core.Option {
	return core.WithRouter(servemux.New())
}

func WithRouterHttprouter() core.Option {
	return core.WithRouter(httprouter.New())
}

// WithCacheRistretto sizes the shared cache by level: "small",
// "medium", "large" or "very-large".
func WithCacheRistretto(level string) core.Option {
	c, err := ristretto.New[any](level)
	if err != nil {
		panic("failed to initialize ristretto cache: " + err.Error())
	}
	return core.WithCache(c)
}

// DefaultLoggerOptions provides default settings for slog handlers.
var DefaultLoggerOptions = &slog.HandlerOptions{
	Level: slog.LevelInfo,
}

// WithPhusLogger configures slog with phuslu/log's JSON handler.
// Uses DefaultLoggerOptions if opts is nil.
func WithPhusLogger(opts *slog.HandlerOptions) core.Option {
	if opts == nil {
		opts = DefaultLoggerOptions
	}
	logger := slog.New(phuslog.SlogNewJSONHandler(os.Stderr, opts))
	return core.WithLogger(logger)
}

// WithTextLogger configures slog with the standard library's text handler.
func WithTextLogger(opts *slog.HandlerOptions) core.Option {
	if opts == nil {
		opts = DefaultLoggerOptions
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, opts))
	return core.WithLogger(logger)
}
