// Command tracker runs the convoy accuracy tracking service: the
// operation endpoint, the subscription transport, and both storage
// tiers behind them.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/oklog/run"
	"go.uber.org/zap"

	"github.com/picogrid/convoy-tracker/pkg/analytics"
	"github.com/picogrid/convoy-tracker/pkg/api"
	"github.com/picogrid/convoy-tracker/pkg/coldstore"
	"github.com/picogrid/convoy-tracker/pkg/config"
	"github.com/picogrid/convoy-tracker/pkg/events"
	"github.com/picogrid/convoy-tracker/pkg/hotstore"
	"github.com/picogrid/convoy-tracker/pkg/logging"
	"github.com/picogrid/convoy-tracker/pkg/repository"
)

// version is stamped at build time via -ldflags.
var version = "dev"

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := runService(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runService() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("initialize logging: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting convoy tracker",
		zap.String("version", version),
		zap.String("addr", cfg.Server.Addr))

	cold, err := coldstore.New(cfg.Scylla)
	if err != nil {
		return fmt.Errorf("connect cold tier: %w", err)
	}
	defer cold.Close()

	connectCtx, cancelConnect := context.WithTimeout(context.Background(), 10*time.Second)
	hot, err := hotstore.New(connectCtx, hotstore.Options{
		URL:      cfg.Redis.URL,
		PoolSize: cfg.Redis.PoolSize,
	})
	cancelConnect()
	if err != nil {
		return fmt.Errorf("connect hot tier: %w", err)
	}
	defer func() { _ = hot.Close() }()

	broker := events.NewBroker()

	var buffer *analytics.Buffer
	if cfg.Analytics.Enabled {
		engine, err := analytics.New(cfg.Analytics.Path, log)
		if err != nil {
			return fmt.Errorf("open analytics store: %w", err)
		}
		defer func() { _ = engine.Close() }()

		buffer = analytics.NewBuffer(engine, cfg.Analytics.BatchSize, cfg.Analytics.FlushInterval, log)
		buffer.Start(context.Background())
		defer buffer.Stop()
	}

	resolver := api.NewResolver(api.ResolverConfig{
		Convoys:     repository.NewConvoyRepository(cold, hot, log),
		Assets:      repository.NewDroneRepository(cold, hot, log),
		Waypoints:   repository.NewWaypointRepository(cold, hot, log),
		Telemetry:   repository.NewTelemetryRepository(cold, hot, log),
		Engagements: repository.NewEngagementRepository(cold, log),
		Ranking:     repository.NewRankingRepository(cold, hot, log),
		Broker:      broker,
		Analytics:   buffer,
		Version:     version,
		Logger:      log,
	})

	srv := api.NewServer(cfg.Server, resolver, log)
	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	var g run.Group
	g.Add(run.SignalHandler(context.Background(), os.Interrupt, syscall.SIGTERM))
	g.Add(func() error {
		log.Info("listening", zap.String("addr", cfg.Server.Addr))
		return httpServer.ListenAndServe()
	}, func(error) {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Warn("http shutdown", zap.Error(err))
		}
		// Terminate subscriptions after the listener stops accepting.
		broker.Close()
	})

	err = g.Run()
	var sigErr run.SignalError
	if errors.As(err, &sigErr) {
		log.Info("shutting down", zap.String("signal", sigErr.Signal.String()))
		return nil
	}
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
