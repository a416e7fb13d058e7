package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sponsorbridge/sponsorbridge/internal/analytics"
	"github.com/sponsorbridge/sponsorbridge/internal/api"
	"github.com/sponsorbridge/sponsorbridge/internal/config"
	"github.com/sponsorbridge/sponsorbridge/internal/db"
	"github.com/sponsorbridge/sponsorbridge/internal/middleware"
	"github.com/sponsorbridge/sponsorbridge/internal/observability"
	"github.com/sponsorbridge/sponsorbridge/internal/session"
	"github.com/sponsorbridge/sponsorbridge/internal/web"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	logger, err := observability.InitLoggerWithService(cfg.ServiceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}

	defer func() {
		if err := logger.Sync(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to sync logger: %v\n", err)
		}
	}()

	if err := run(logger, cfg); err != nil {
		logger.Error("server error", zap.Error(err))
		os.Exit(1)
	}
}

func run(logger *zap.Logger, cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.TracingEnabled {
		shutdown, err := observability.InitTracing(ctx, logger, cfg.ServiceName, cfg.TempoEndpoint, cfg.TracingSampleRate)
		if err != nil {
			return fmt.Errorf("init tracing: %w", err)
		}
		defer shutdown()
	}

	pg, err := db.InitPostgres(cfg.PostgresDSN, cfg.DBMaxOpenConns, cfg.DBMaxIdleConns, cfg.DBConnMaxLifetime, cfg.DBConnMaxIdleTime)
	if err != nil {
		return fmt.Errorf("failed to connect postgres: %w", err)
	}
	defer pg.Close()

	store, err := db.InitRedis(cfg.RedisAddr)
	if err != nil {
		return fmt.Errorf("failed to connect redis: %w", err)
	}
	defer store.Close()

	var analyticsSvc analytics.Service
	if cfg.ClickHouseDSN != "" {
		ch, err := analytics.InitClickHouse(cfg.ClickHouseDSN)
		if err != nil {
			return fmt.Errorf("failed to connect clickhouse: %w", err)
		}
		defer ch.Close()
		analyticsSvc = ch
	} else {
		logger.Info("ClickHouse DSN not set, analytics events will not be persisted")
		analyticsSvc = analytics.NewMockAnalytics()
	}

	metricsRegistry := observability.NewPrometheusRegistry()

	resolver := session.NewResolver(cfg.SessionServiceURL, cfg.SessionTimeout, pg, logger)

	srvDeps := api.NewServer(logger, pg, store, resolver, analyticsSvc, metricsRegistry, cfg)
	r := srvDeps.Routes()

	apiClient := web.NewClient(cfg.APIBaseURL, cfg.APITimeout)
	web.NewServer(logger, apiClient, resolver).Routes(r)

	var handler http.Handler = r
	handler = middleware.WithTraceLogger(logger)(handler)
	if cfg.TracingEnabled {
		handler = otelhttp.NewHandler(handler, "http.server")
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	logger.Info("Marketplace server running", zap.String("addr", srv.Addr))

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("listen: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	return nil
}
