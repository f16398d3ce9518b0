package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go-chi-calculator/internal/calculator"
	"go-chi-calculator/internal/config"
	"go-chi-calculator/internal/observability"
	"go-chi-calculator/internal/server"

	"go.uber.org/zap"
)

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Config
	envFile := config.EnvFile(os.Getenv)
	if err := loadDotEnv(envFile); err != nil {
		panic(err)
	}
	cfg, err := config.Load(os.Getenv)
	if err != nil {
		panic(err)
	}

	// Logger
	err = observability.InitLogger(cfg.LogLevel, cfg.Development())
	if err != nil {
		panic(err)
	}
	defer observability.SyncLogger()

	// Tracing, metrics, logs
	telemetryShutdown, err := initTelemetry(ctx, cfg)
	if err != nil {
		panic(err)
	}
	defer telemetryShutdown(context.Background())

	// Sessions
	store := calculator.NewStore(cfg.SessionTTL, cfg.MaxSessions)
	go store.Run(ctx, cfg.SweepInterval, observability.Logger)

	registry, err := observability.NewRegistry(calculator.NewSessionsCollector(store))
	if err != nil {
		panic(err)
	}

	go func() {
		if err := config.WatchLogLevel(ctx, envFile, observability.Level, observability.Logger); err != nil {
			observability.Logger.Warn("log level reload disabled", zap.Error(err))
		}
	}()

	// Router
	router := server.NewRouter(calculator.NewHandler(store), registry)

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: router,
	}

	go func() {
		observability.Logger.Info("server started",
			zap.String("addr", cfg.Addr),
			zap.String("service", cfg.ServiceName),
			zap.Bool("otlp", cfg.OTLPEnabled),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			observability.Logger.Fatal("server failed", zap.Error(err))
		}
	}()

	waitForShutdown(ctx, srv, cfg)
}

func waitForShutdown(ctx context.Context, srv *http.Server, cfg config.Config) {

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		observability.Logger.Error("server shutdown", zap.Error(err))
		return
	}
	observability.Logger.Info("server stopped")
}
