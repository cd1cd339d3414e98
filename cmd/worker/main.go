package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/harryji168/nba-api/internal/cache"
	"github.com/harryji168/nba-api/internal/client"
	"github.com/harryji168/nba-api/internal/config"
	"github.com/harryji168/nba-api/internal/ingest"
	"github.com/harryji168/nba-api/internal/metrics"
	"github.com/harryji168/nba-api/internal/repository"
	"github.com/harryji168/nba-api/internal/scheduler"
)

func main() {
	setupLogger()

	log.Info().Msg("Starting NBA data ingestion worker")

	cfg := config.MustLoad()
	log.Info().
		Str("env", cfg.AppEnv).
		Str("log_level", cfg.LogLevel).
		Bool("use_cache", cfg.UseCache).
		Msg("Configuration loaded")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info().Msg("Received shutdown signal, gracefully shutting down...")
		cancel()
	}()

	apiClient := client.NewClient(cfg.APIHost, cfg.APIKey, cfg.APITimeout, log.Logger)
	log.Info().Str("host", cfg.APIHost).Msg("NBA API client initialized")

	db, err := repository.NewDatabase(ctx, repository.Config{
		Host:     cfg.DatabaseHost,
		Port:     strconv.Itoa(cfg.DatabasePort),
		User:     cfg.DatabaseUser,
		Password: cfg.DatabasePassword,
		Database: cfg.DatabaseName,
		SSLMode:  cfg.DatabaseSSLMode,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if cfg.EnableMetrics {
		go startMetricsServer(strconv.Itoa(cfg.MetricsPort))
		go trackUptime(ctx)
	}

	fileStore := cache.NewFileStore(cfg.CacheDir, cfg.UseCache, log.Logger)
	seasons := ingest.NewSeasonService(apiClient, fileStore, cfg.APIEndpointSeasons, log.Logger)
	ingestor := ingest.NewIngestor(
		seasons,
		apiClient,
		fileStore,
		db,
		ingest.FixedDelay{Delay: cfg.FetchDelay},
		cfg.APIEndpointGames,
		log.Logger,
	)

	sched := scheduler.NewScheduler(cfg, ingestor)
	if cfg.EnableScheduler {
		if err := sched.Start(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to start scheduler")
		}
	}

	if cfg.InitialSync {
		log.Info().Msg("Running initial data sync...")
		games, err := ingestor.IngestAll(ctx)
		if err != nil {
			log.Error().Err(err).Msg("Initial sync failed, continuing anyway...")
		} else {
			log.Info().Int("fetched_games", len(games)).Msg("Initial sync completed")
		}
	}

	<-ctx.Done()

	log.Info().Msg("Shutting down scheduler...")
	sched.Stop()

	log.Info().Msg("Worker shutdown complete")
}

// setupLogger configures the zerolog logger
func setupLogger() {
	if os.Getenv("APP_ENV") == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		})
	}

	level := zerolog.InfoLevel
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		if parsed, err := zerolog.ParseLevel(lvl); err == nil {
			level = parsed
		}
	}
	zerolog.SetGlobalLevel(level)
}

// startMetricsServer starts the Prometheus metrics endpoint
func startMetricsServer(port string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	addr := fmt.Sprintf(":%s", port)
	log.Info().Str("addr", addr).Msg("Metrics server listening")

	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Error().Err(err).Msg("Metrics server failed")
	}
}

func trackUptime(ctx context.Context) {
	startTime := time.Now()
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			metrics.SystemUptime.Set(time.Since(startTime).Seconds())
		case <-ctx.Done():
			return
		}
	}
}
