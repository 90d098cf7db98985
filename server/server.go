package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/gatehouse/gatehouse/config"
)

// Daemon is a long-running component the server starts before serving
// and stops during graceful shutdown.
type Daemon interface {
	Name() string
	Start() error
	Stop(ctx context.Context) error
}

type Server struct {
	configProvider *config.Provider
	handler        http.Handler
	daemons        []Daemon
	logger         *slog.Logger
}

func NewServer(configProvider *config.Provider, handler http.Handler, logger *slog.Logger, daemons ...Daemon) *Server {
	return &Server{
		configProvider: configProvider,
		handler:        handler,
		daemons:        daemons,
		logger:         logger,
	}
}

// Run serves until a termination signal or a server error, then shuts
// down the HTTP server and every daemon within the configured graceful
// timeout.
func (s *Server) Run() error {
	cfg := s.configProvider.Get().Server

	s.logger.Info("server configuration",
		"addr", cfg.Addr,
		"tls", cfg.EnableTLS,
		"read_timeout", cfg.ReadTimeout.Duration,
		"read_header_timeout", cfg.ReadHeaderTimeout.Duration,
		"write_timeout", cfg.WriteTimeout.Duration,
		"idle_timeout", cfg.IdleTimeout.Duration,
		"shutdown_timeout", cfg.ShutdownGracefulTimeout.Duration,
	)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.handler,
		ReadTimeout:       cfg.ReadTimeout.Duration,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout.Duration,
		WriteTimeout:      cfg.WriteTimeout.Duration,
		IdleTimeout:       cfg.IdleTimeout.Duration,
	}

	var started []Daemon
	for _, daemon := range s.daemons {
		if err := daemon.Start(); err != nil {
			s.logger.Error("failed to start daemon", "daemon", daemon.Name(), "error", err)
			s.stopDaemons(started)
			return err
		}
		started = append(started, daemon)
	}

	serverError := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", cfg.Addr)
		var err error
		if cfg.EnableTLS {
			err = srv.ListenAndServeTLS(cfg.CertFile, cfg.KeyFile)
		} else {
			err = srv.ListenAndServe()
		}
		if !errors.Is(err, http.ErrServerClosed) {
			serverError <- err
		}
	}()

	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGHUP,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)

	var runErr error
	select {
	case <-ctx.Done():
		s.logger.Info("received shutdown signal - gracefully shutting down")
	case err := <-serverError:
		s.logger.Error("server error - initiating shutdown", "error", err)
		runErr = err
	}
	stop()

	gracefulCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.ShutdownGracefulTimeout.Duration)
	defer cancelShutdown()

	shutdownGroup, _ := errgroup.WithContext(gracefulCtx)

	shutdownGroup.Go(func() error {
		s.logger.Info("shutting down HTTP server")
		if err := srv.Shutdown(gracefulCtx); err != nil {
			s.logger.Error("HTTP server shutdown error", "error", err)
			return err
		}
		return nil
	})

	for _, daemon := range s.daemons {
		daemon := daemon
		shutdownGroup.Go(func() error {
			if err := daemon.Stop(gracefulCtx); err != nil {
				s.logger.Error("daemon shutdown error", "daemon", daemon.Name(), "error", err)
				return err
			}
			return nil
		})
	}

	if err := shutdownGroup.Wait(); err != nil {
		if runErr == nil {
			runErr = err
		}
		return runErr
	}

	s.logger.Info("all systems stopped gracefully")
	return runErr
}

// stopDaemons stops already-started daemons after a startup failure.
func (s *Server) stopDaemons(daemons []Daemon) {
	ctx, cancel := context.WithTimeout(context.Background(), s.configProvider.Get().Server.ShutdownGracefulTimeout.Duration)
	defer cancel()
	for _, daemon := range daemons {
		if err := daemon.Stop(ctx); err != nil {
			s.logger.Error("daemon cleanup error", "daemon", daemon.Name(), "error", err)
		}
	}
}
