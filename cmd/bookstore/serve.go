package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/erazemk/bookstore/internal/config"
	"github.com/erazemk/bookstore/internal/web"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the web server (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), cfg)
		},
	}
}

// runServe serves until ctx is cancelled, then drains connections and closes
// the stores.
func runServe(ctx context.Context, cfg *config.Config) error {
	slog.Info("starting", "workers", cfg.Concurrency)

	books, err := openBooks(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := books.Close(closeCtx); err != nil {
			slog.Error("failed to close book store", "error", err)
		}
	}()

	imgs, err := openImages(ctx, cfg)
	if err != nil {
		return err
	}

	opts := web.Options{PublicDir: cfg.PublicDir}
	if cfg.RequestLog != "" {
		requestLog, err := web.OpenRequestLog(cfg.RequestLog)
		if err != nil {
			return err
		}
		defer requestLog.Close()
		opts.RequestLog = requestLog
	}

	handler, err := web.NewRouter(books, imgs, opts)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server forced to shutdown", "error", err)
		}
	}()

	slog.Info("server started", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	slog.Info("server stopped, closing stores")
	return nil
}
