package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/latticekb/lattice/internal/api"
	"github.com/latticekb/lattice/internal/classifier"
	"github.com/latticekb/lattice/internal/config"
	"github.com/latticekb/lattice/internal/ingest"
	"github.com/latticekb/lattice/internal/ws"
)

// shutdownTimeout bounds graceful HTTP drain on exit.
const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the lattice API server",
		Run: func(cmd *cobra.Command, args []string) {
			if err := runServer(); err != nil {
				fatal("serve", err)
			}
		},
	}
}

func runServer() error {
	// CLI flags take precedence over the environment for the shared
	// backend settings.
	if flagDBURL != "" {
		os.Setenv("DATABASE_URL", flagDBURL)
	}
	if flagBackend != "" {
		os.Setenv("STORAGE_BACKEND", flagBackend)
	}
	if flagDB != "" {
		os.Setenv("SQLITE_PATH", flagDB)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logrus.New()
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, pinger, closeStore, err := openStoreWithPinger(ctx, log)
	if err != nil {
		return err
	}
	defer closeStore()

	svc := ingest.NewService(classifier.New(classifier.Config{
		MaxBytes:   cfg.MaxDocumentBytes,
		MaxNesting: cfg.MaxNestingDepth,
	}, log), st, log)

	hub := ws.NewHub(log)
	go hub.Run(ctx)

	router := api.NewRouter(ctx, &api.RouterDeps{
		Log:         log,
		Store:       st,
		Pinger:      pinger,
		Hub:         hub,
		Ingestor:    svc,
		CORSOrigins: cfg.CORSOrigins,
		Version:     config.Version,
		Backend:     cfg.StorageBackend,
		MaxBodySize: int64(cfg.MaxDocumentBytes),
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithFields(logrus.Fields{
			"addr":    cfg.Addr(),
			"backend": cfg.StorageBackend,
			"version": config.Version,
		}).Info("server listening")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")

	hub.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	return nil
}
