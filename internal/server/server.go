package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	config *Config
	svc    *Services
	server *http.Server
}

func New(config *Config) (*Server, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	svc, err := NewServices(config)
	if err != nil {
		return nil, err
	}

	return &Server{
		config: config,
		svc:    svc,
		server: &http.Server{
			Addr:    config.HTTP.Addr,
			Handler: SetupRoutes(svc, config),
			// Timeouts to prevent slow client attacks
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      60 * time.Second,
			IdleTimeout:       120 * time.Second,
			ReadHeaderTimeout: 10 * time.Second,
			MaxHeaderBytes:    1 << 20, // 1 MB
		},
	}, nil
}

func (s *Server) Start(ctx context.Context) error {
	slog.Info("stashd start", "addr", s.config.HTTP.Addr, "store", s.config.Store.Backend)
	defer slog.Info("stashd stop")

	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		if err := s.listenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egCtx.Done()
		slog.Info("stashd shutdown signal")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.Stop(shutdownCtx)
	})

	if err := eg.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	if err := s.server.Shutdown(ctx); err != nil {
		return err
	}
	return s.svc.Shutdown()
}

func (s *Server) listenAndServe() error {
	if s.config.HTTP.TLSEnabled() {
		slog.Info("serving with tls", "cert", s.config.HTTP.CertFile, "key", s.config.HTTP.KeyFile)
		return s.server.ListenAndServeTLS(s.config.HTTP.CertFile, s.config.HTTP.KeyFile)
	}
	return s.server.ListenAndServe()
}
