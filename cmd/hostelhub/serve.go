// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"hostelhub/internal/auth"
	"hostelhub/internal/cache"
	"hostelhub/internal/handlers"
	"hostelhub/internal/middleware"
	"hostelhub/internal/router"
	"hostelhub/internal/store"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	cfg, err := setup()
	if err != nil {
		return err
	}

	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	// Connect to Valkey for the category listing cache.
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		return fmt.Errorf("connect valkey: %w", err)
	}
	defer valkeyClient.Close()

	// The key set refresher stops with ctx.
	verifier, err := auth.NewJWTVerifierFromConfig(ctx, auth.VerifierConfig{
		JWKSURL:       cfg.AuthJWKSURL,
		PublicKeyFile: cfg.AuthPublicKeyFile,
		Secret:        cfg.AuthJWTSecret,
		Issuer:        cfg.AuthIssuer,
		Audience:      cfg.AuthAudience,
	})
	if err != nil {
		return fmt.Errorf("token verifier: %w", err)
	}

	// Initialize data stores.
	userStore := store.NewUserStore(db)
	categoryStore := store.NewCategoryStore(db)

	gate := auth.NewGate(verifier, userStore)
	categories := handlers.NewCategories(categoryStore, cache.NewCategoryCache(valkeyClient, cfg.CategoryCacheTTL))

	limiter := middleware.NewRateLimiter(cfg.MutationRateLimit, time.Minute)
	defer limiter.Stop()

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router.New(gate, categories, handlers.Health(db), limiter),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-sigCtx.Done():
		slog.Info("shutdown signal received")
	}

	// Give active requests up to 30 seconds to complete.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}
