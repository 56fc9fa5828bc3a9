// Package main provides the one-shot prediction CLI.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/matchday/internal/config"
	"github.com/yourusername/matchday/internal/logger"
	"github.com/yourusername/matchday/internal/models"
	"github.com/yourusername/matchday/internal/provider"
	"github.com/yourusername/matchday/internal/service"
	"github.com/yourusername/matchday/internal/store"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to config file (defaults to config/config.yaml)")
		sportFlag  = flag.String("sport", "nba", "Sport: nba or nfl")
		date       = flag.String("date", "", "Slate date YYYY-MM-DD (nba; defaults to today)")
		week       = flag.Int("week", 0, "Week number (nfl)")
		season     = flag.Int("season", 0, "Season year (nfl)")
		offline    = flag.Bool("offline", false, "Skip the live feed and use the stored dataset")
	)
	flag.Parse()

	_ = godotenv.Load()

	appLog, cfg := bootstrap(*configPath)

	sport := models.Sport(*sportFlag)
	if !sport.Valid() {
		appLog.Fatalf("sport must be nba or nfl, got %q", *sportFlag)
	}

	slate := provider.Slate{Sport: sport}
	if sport == models.SportBasketball {
		slate.Date = *date
		if slate.Date == "" {
			slate.Date = time.Now().UTC().Format(models.DateLayout)
		}
	} else {
		if *week > 0 {
			slate.Week = week
		}
		if *season > 0 {
			slate.Season = season
		}
		slate.Date = *date
	}

	fileStore, err := store.NewFileStore(cfg.Storage.DataDir, appLog)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to initialize file store")
	}

	var live provider.Provider
	if !*offline {
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
		live = provider.NewCachedProvider(espn, time.Duration(cfg.Providers.CacheTTLSeconds)*time.Second)
	}

	predictor := service.NewPredictor(cfg, appLog, fileStore, fileStore, live)
	ctx := context.Background()
	if err := predictor.RestoreState(ctx); err != nil {
		appLog.WithError(err).Fatal("Failed to restore persisted state")
	}

	preds, err := predictor.GeneratePredictions(ctx, slate)
	if err != nil {
		appLog.WithError(err).Fatal("Prediction generation failed")
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(preds); err != nil {
		appLog.WithError(err).Fatal("Failed to write predictions")
	}
}

func bootstrap(configPath string) (*logrus.Logger, *config.Config) {
	cfg, err := config.Load(configPath)
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			logrus.Fatalf("AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			logrus.Fatalf("Failed to load secrets: %v", err)
		}
	}
	if err := config.Validate(cfg); err != nil {
		logrus.Fatalf("Invalid configuration: %v", err)
	}
	return logger.NewLogger(cfg.App.LogLevel), cfg
}
