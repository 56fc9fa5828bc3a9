// Package config provides configuration management for the Matchday prediction service.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Load reads and parses the configuration from file and environment variables.
// It expands environment variable placeholders in the YAML file (${VAR_NAME})
// and falls back to built-in defaults when the file does not exist.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath == "" {
		configPath = "config/config.yaml"
	}

	v.SetConfigType("yaml")

	// Set environment variable prefix
	v.SetEnvPrefix("MATCHDAY")

	// Enable automatic binding of environment variables
	v.AutomaticEnv()

	// Replace dots with underscores in environment variable names
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	// Read and expand the configuration file if it exists
	if data, err := os.ReadFile(configPath); err == nil {
		expanded := os.ExpandEnv(string(data))
		if err := v.ReadConfig(bytes.NewBuffer([]byte(expanded))); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	// If file doesn't exist, continue with defaults and environment variables

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

// setDefaults registers defaults so the service runs with no config file at all.
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "matchday")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout_seconds", 5)
	v.SetDefault("server.write_timeout_seconds", 15)

	v.SetDefault("storage.data_dir", "./data")

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_connections", 10)

	v.SetDefault("providers.timeout_seconds", 10)
	v.SetDefault("providers.max_retries", 3)
	v.SetDefault("providers.rate_limit", 5.0)
	v.SetDefault("providers.cache_ttl_seconds", 300)
	v.SetDefault("providers.user_agent", "Mozilla/5.0")
	v.SetDefault("providers.nba_base_url", "https://site.api.espn.com/apis/site/v2/sports/basketball/nba")
	v.SetDefault("providers.nfl_base_url", "https://site.api.espn.com/apis/site/v2/sports/football/nfl")

	v.SetDefault("model.trees", 100)
	v.SetDefault("model.max_depth", 10)
	v.SetDefault("model.min_leaf", 2)
	v.SetDefault("model.seed", 42)
	v.SetDefault("model.holdout_fraction", 0.2)

	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("scheduler.basketball_daily", "0 12 * * *")
	v.SetDefault("scheduler.football_weekly", "0 14 * * 2")
	v.SetDefault("scheduler.reconcile_interval", "0 */6 * * *")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", 9090)
	v.SetDefault("metrics.path", "/metrics")
}
