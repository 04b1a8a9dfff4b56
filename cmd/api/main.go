// Package main starts the HTTP server that turns diagrams into Terraform
// configuration and Terraform state back into diagrams.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/terrascope/tfgen/internal/config"
	"github.com/terrascope/tfgen/internal/logging"
	"github.com/terrascope/tfgen/internal/metrics"
	"github.com/terrascope/tfgen/internal/server"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, newServer(cfg, logger), logger); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}

func newServer(cfg *config.Config, logger *zap.Logger) *http.Server {
	var collector *metrics.Collector
	if cfg.EnableMetrics {
		collector = metrics.NewCollector()
	}

	return &http.Server{
		Addr:         cfg.ServerAddress,
		Handler:      server.NewRouter(cfg, logger, collector),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// run serves until ctx is cancelled, then shuts the server down gracefully.
func run(ctx context.Context, srv *http.Server, logger *zap.Logger) error {
	logger.Info("Starting server", zap.String("address", srv.Addr))

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("Server stopped")
	return nil
}
