package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"adoptme/internal/adapters/cache"
	"adoptme/internal/platform/password"
	"adoptme/internal/ports/ratelimit"
	"adoptme/internal/router"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, log, st, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			log.Error("close store", map[string]any{"error": err})
		}
	}()

	var limiter ratelimit.Limiter
	if cfg.RedisURL != "" {
		c, err := cache.New(ctx, cfg.RedisURL)
		if err != nil {
			// sin Redis los mocks quedan sin rate limit, el resto anda igual
			log.Warn("redis unavailable, mock rate limit disabled", map[string]any{"error": err})
		} else {
			defer func() { _ = c.Close() }()
			limiter = c
		}
	}

	handler := router.NewRouter(router.Options{
		Store:        st,
		Logger:       log,
		Limiter:      limiter,
		MockRPS:      cfg.MockRateLimitRPS,
		MockBurst:    cfg.MockRateLimitBurst,
		Hasher:       password.NewHasher(cfg.BcryptCost),
		MockPassword: cfg.MockPassword,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{"addr": srv.Addr, "env": cfg.AppEnv})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error("server error", map[string]any{"error": err})
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down", map[string]any{"timeout": cfg.ShutdownTimeout.String()})
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", map[string]any{"error": err})
		return err
	}
	log.Info("server stopped", nil)
	return nil
}
