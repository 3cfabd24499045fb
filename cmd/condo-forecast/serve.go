package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iwvelando/condo-forecast/internal/cache"
	"github.com/iwvelando/condo-forecast/internal/metrics"
	"github.com/iwvelando/condo-forecast/internal/server"
	"github.com/iwvelando/condo-forecast/pkg/constants"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	redisConnectTimeout = 15 * time.Second
	shutdownTimeout     = 30 * time.Second
)

type serveOptions struct {
	configPath string
	logLevel   string
}

func newServeCmd() *cobra.Command {
	opts := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the forecast HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), *opts)
		},
	}
	cmd.Flags().StringVar(&opts.configPath, "server-config", constants.DefaultServerConfigFile, "path to server configuration file")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	return cmd
}

func serve(ctx context.Context, opts serveOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := server.LoadConfig(opts.configPath)
	if err != nil {
		return err
	}

	logger, err := initializeLogger(cfg.Logging, opts.logLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	m := metrics.New()
	handlerOpts := []server.Option{server.WithMetrics(m)}

	if cfg.CacheEnabled() {
		connectCtx, cancel := context.WithTimeout(ctx, redisConnectTimeout)
		client, err := cache.Connect(connectCtx, logger, cfg.RedisURL)
		cancel()
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		resultCache := cache.New(client, cfg.CacheTTLDuration())
		defer func() {
			_ = resultCache.Close()
		}()
		handlerOpts = append(handlerOpts, server.WithCache(resultCache))
		logger.Info("connected to redis",
			zap.String("op", "main.serve"),
			zap.Duration("ttl", cfg.CacheTTLDuration()),
		)
	}

	srv := &http.Server{
		Addr:              cfg.Address,
		Handler:           server.NewHandler(logger, cfg.UploadSizeBytes(), version, handlerOpts...),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server",
			zap.String("op", "main.serve"),
			zap.String("address", cfg.Address),
			zap.Int64("maxUploadSize", cfg.UploadSizeBytes()),
			zap.String("version", version),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-quit:
	case <-ctx.Done():
	}

	logger.Info("shutting down server", zap.String("op", "main.serve"))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("server stopped", zap.String("op", "main.serve"))
	return nil
}
