// Package main provides the ledger backfill CLI.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/matchday/internal/config"
	"github.com/yourusername/matchday/internal/logger"
	"github.com/yourusername/matchday/internal/models"
	"github.com/yourusername/matchday/internal/service"
	"github.com/yourusername/matchday/internal/store"
)

var (
	configFile string
	sportFlag  string
	fromDate   string
	toDate     string

	appLog *logrus.Logger
	cfg    *config.Config
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to configuration file")
	rootCmd.Flags().StringVarP(&sportFlag, "sport", "s", "nba", "Sport: nba or nfl")
	rootCmd.Flags().StringVar(&fromDate, "from", "", "Earliest game date YYYY-MM-DD (inclusive)")
	rootCmd.Flags().StringVar(&toDate, "to", "", "Latest game date YYYY-MM-DD (inclusive)")
}

var rootCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Rebuild the accuracy ledger from the stored historical dataset",
	Long: `Replays completed games through the deterministic rule-based predictor and
settles each entry against its known result, producing the retrospective
accuracy record. Running it twice over the same dataset yields the same
record.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()

		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
			region := os.Getenv("AWS_REGION")
			secretName := os.Getenv("AWS_SECRET_NAME")
			if region == "" || secretName == "" {
				return fmt.Errorf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
			}
			if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
				return fmt.Errorf("failed to load secrets: %w", err)
			}
		}
		if err := config.Validate(cfg); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		appLog = logger.NewLogger(cfg.App.LogLevel)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		sport := models.Sport(sportFlag)
		if !sport.Valid() {
			return fmt.Errorf("sport must be nba or nfl, got %q", sportFlag)
		}

		fileStore, err := store.NewFileStore(cfg.Storage.DataDir, appLog)
		if err != nil {
			return fmt.Errorf("failed to initialize file store: %w", err)
		}

		predictor := service.NewPredictor(cfg, appLog, fileStore, fileStore, nil)
		ctx := context.Background()
		if err := predictor.RestoreState(ctx); err != nil {
			return fmt.Errorf("failed to restore persisted state: %w", err)
		}

		stats, err := predictor.Backfill(ctx, sport, fromDate, toDate)
		if err != nil {
			return fmt.Errorf("backfill failed: %w", err)
		}

		fmt.Printf("Backfill complete: %d predictions, record %s, accuracy %.3f\n",
			stats.TotalPredictions, stats.Record, stats.Accuracy)
		return nil
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}
