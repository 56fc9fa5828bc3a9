// Package main provides the offline model training CLI.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/matchday/internal/config"
	"github.com/yourusername/matchday/internal/logger"
	"github.com/yourusername/matchday/internal/models"
	"github.com/yourusername/matchday/internal/service"
	"github.com/yourusername/matchday/internal/store"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to config file (defaults to config/config.yaml)")
		sportFlag  = flag.String("sport", "", "Sport to train: nba, nfl, or empty for both")
	)
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
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
	appLog := logger.NewLogger(cfg.App.LogLevel)

	fileStore, err := store.NewFileStore(cfg.Storage.DataDir, appLog)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to initialize file store")
	}

	var dataset store.DatasetSource = fileStore
	if cfg.Database.Enabled {
		pg, err := store.NewPostgresDataset(context.Background(), &cfg.Database, cfg.GetDatabaseDSN(), appLog)
		if err != nil {
			appLog.WithError(err).Fatal("Failed to connect to database")
		}
		defer pg.Close()
		dataset = pg
	}

	predictor := service.NewPredictor(cfg, appLog, fileStore, dataset, nil)

	sports := []models.Sport{models.SportBasketball, models.SportFootball}
	if *sportFlag != "" {
		sport := models.Sport(*sportFlag)
		if !sport.Valid() {
			appLog.Fatalf("sport must be nba or nfl, got %q", *sportFlag)
		}
		sports = []models.Sport{sport}
	}

	ctx := context.Background()
	for _, sport := range sports {
		report, err := predictor.Train(ctx, sport)
		if err != nil {
			appLog.WithError(err).WithField("sport", sport).Fatal("Training failed")
		}
		appLog.WithFields(logrus.Fields{
			"sport":      sport,
			"examples":   report.Examples,
			"train_size": report.TrainSize,
			"test_size":  report.TestSize,
			"accuracy":   report.Accuracy,
			"mse":        report.MSE,
			"r2":         report.R2,
		}).Info("Training complete")
	}
}
