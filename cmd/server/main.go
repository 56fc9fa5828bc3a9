// Package main provides the entry point for the prediction API server.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/matchday/internal/api"
	"github.com/yourusername/matchday/internal/config"
	"github.com/yourusername/matchday/internal/health"
	"github.com/yourusername/matchday/internal/logger"
	"github.com/yourusername/matchday/internal/provider"
	"github.com/yourusername/matchday/internal/scheduler"
	"github.com/yourusername/matchday/internal/service"
	"github.com/yourusername/matchday/internal/store"
)

func main() {
	_ = godotenv.Load()

	configPath := os.Getenv("MATCHDAY_CONFIG")
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Load AWS secrets if enabled
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			log.Fatalf("AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			log.Fatalf("Failed to load secrets: %v", err)
		}
	}

	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	appLog := logger.NewLogger(cfg.App.LogLevel)
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"log_level":   cfg.App.LogLevel,
	}).Info("Matchday prediction server starting")

	fileStore, err := store.NewFileStore(cfg.Storage.DataDir, appLog)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to initialize file store")
	}

	var dataset store.DatasetSource = fileStore
	var pinger health.DatasetPinger
	if cfg.Database.Enabled {
		pg, err := store.NewPostgresDataset(context.Background(), &cfg.Database, cfg.GetDatabaseDSN(), appLog)
		if err != nil {
			appLog.WithError(err).Fatal("Failed to connect to database")
		}
		defer pg.Close()
		dataset = pg
		pinger = pg
		appLog.Info("Database dataset source enabled")
	}

	httpClient := provider.NewRateLimitedHTTPClient(provider.HTTPClientConfig{
		Timeout:           time.Duration(cfg.Providers.TimeoutSeconds) * time.Second,
		MaxRetries:        cfg.Providers.MaxRetries,
		RetryWaitMin:      100 * time.Millisecond,
		RetryWaitMax:      5 * time.Second,
		RateLimit:         cfg.Providers.RateLimit,
		CircuitBreakerMax: 5,
	}, appLog)
	defer httpClient.Close()

	espn := provider.NewESPNClient(httpClient, cfg.Providers.NBABaseURL, cfg.Providers.NFLBaseURL, cfg.Providers.UserAgent, appLog)
	live := provider.NewCachedProvider(espn, time.Duration(cfg.Providers.CacheTTLSeconds)*time.Second)

	probeCtx, probeCancel := context.WithCancel(context.Background())
	defer probeCancel()
	var probes *health.Server
	if cfg.Metrics.Enabled {
		probes = health.NewServer(health.Config{
			ServiceName: cfg.App.Name,
			Port:        cfg.Metrics.Port,
			MetricsPath: cfg.Metrics.Path,
			Logger:      appLog,
			Dataset:     pinger,
		})
		if err := probes.Start(probeCtx); err != nil {
			appLog.WithError(err).Fatal("Failed to start probe server")
		}
	}

	predictor := service.NewPredictor(cfg, appLog, fileStore, dataset, live)
	if err := predictor.RestoreState(context.Background()); err != nil {
		appLog.WithError(err).Fatal("Failed to restore persisted state")
	}
	if probes != nil {
		probes.SetReady(true)
	}

	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		sched = scheduler.NewScheduler(predictor, appLog)
		if err := sched.ScheduleFromConfig(&cfg.Scheduler); err != nil {
			appLog.WithError(err).Fatal("Failed to schedule jobs")
		}
		if err := sched.Start(); err != nil {
			appLog.WithError(err).Fatal("Failed to start scheduler")
		}
	}

	server := api.NewServer(cfg, predictor, appLog)
	go func() {
		if err := server.Start(); err != nil {
			appLog.WithError(err).Fatal("HTTP server failed")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	appLog.WithField("signal", sig).Info("Shutdown signal received")

	if sched != nil {
		if err := sched.Stop(); err != nil {
			appLog.WithError(err).Error("Error stopping scheduler")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		appLog.WithError(err).Error("Error during server shutdown")
	}

	appLog.Info("Matchday prediction server shut down successfully")
}
