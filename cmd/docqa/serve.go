package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"docqa/internal/ask"
	"docqa/internal/completion"
	"docqa/internal/config"
	"docqa/internal/httpapi"
	"docqa/internal/registry"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the question form and JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			log := newLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat)
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, log)
		},
	}
	cmd.Flags().String("addr", "", "HTTP listen address, e.g. :8080")
	cmd.Flags().String("models", "", "Comma separated model ids offered in the selector")
	cmd.Flags().String("default-model", "", "Preselected model id")
	cmd.Flags().String("base-url", "", "Completion endpoint root")
	cmd.Flags().String("log-level", "", "Log level: off|error|info|debug")
	return cmd
}

// buildService assembles the ask service from cfg. The returned cleanup
// closes any backend connections.
func buildService(cfg config.Config, log zerolog.Logger) (*ask.Service, func(), error) {
	models, err := registry.New(cfg.Models, cfg.DefaultModel)
	if err != nil {
		return nil, nil, err
	}
	opts := completion.Options{BaseURL: cfg.BaseURL, Logger: log.With().Str("component", "completion").Logger()}
	if cfg.TokenEstimate {
		opts.Tokens = completion.NewTiktokenCounter()
	}
	requester := completion.NewRequester(opts)

	cleanup := func() {}
	var guard ask.Guard = ask.NewMemoryGuard()
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		guard = ask.NewRedisGuard(client, cfg.RedisPrefix, time.Duration(cfg.SessionTTLSeconds)*time.Second,
			log.With().Str("component", "guard").Logger())
		cleanup = func() { _ = client.Close() }
	}
	return ask.NewService(requester, models, guard, log.With().Str("component", "ask").Logger()), cleanup, nil
}

func serve(ctx context.Context, cfg config.Config, log zerolog.Logger) error {
	svc, cleanup, err := buildService(cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	httpapi.SetLogger(log.With().Str("component", "http").Logger())
	httpapi.SetDefaultLogLevel(cfg.LogLevel)
	httpapi.SetMaxUploadBytes(int64(cfg.MaxUploadMB) << 20)
	httpapi.SetCORSOptions(cfg.CORSEnabled, cfg.CORSAllowedOrigins, cfg.CORSAllowedMethods, cfg.CORSAllowedHeaders)
	httpapi.SetBaseContext(ctx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpapi.NewMux(svc),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr).Strs("models", cfg.Models).Bool("redis", cfg.RedisAddr != "").Msg("docqa listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	log.Info().Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		log.Warn().Err(err).Msg("graceful shutdown")
	}
	return <-errc
}
