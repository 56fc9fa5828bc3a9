// Package config provides configuration management for the Matchday prediction service.
package config

import (
	"fmt"
)

// Config represents the complete application configuration
type Config struct {
	App       AppConfig       `mapstructure:"app" validate:"required"`
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Storage   StorageConfig   `mapstructure:"storage" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Providers ProvidersConfig `mapstructure:"providers" validate:"required"`
	Model     ModelConfig     `mapstructure:"model" validate:"required"`
	Scheduler SchedulerConfig `mapstructure:"scheduler" validate:"required"`
	Metrics   MetricsConfig   `mapstructure:"metrics" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// ServerConfig represents the HTTP API server configuration
type ServerConfig struct {
	Port                int `mapstructure:"port" validate:"required,min=1,max=65535"`
	ReadTimeoutSeconds  int `mapstructure:"read_timeout_seconds" validate:"required,gt=0"`
	WriteTimeoutSeconds int `mapstructure:"write_timeout_seconds" validate:"required,gt=0"`
}

// StorageConfig represents file-backed persistence configuration
type StorageConfig struct {
	DataDir string `mapstructure:"data_dir" validate:"required"`
}

// DatabaseConfig represents the optional Postgres dataset source. When
// disabled, historical games are loaded from the file store instead.
type DatabaseConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Name           string `mapstructure:"name"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	SSLMode        string `mapstructure:"ssl_mode"`
	MaxConnections int    `mapstructure:"max_connections"`
}

// ProvidersConfig represents external schedule/result/injury provider configuration
type ProvidersConfig struct {
	TimeoutSeconds  int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	MaxRetries      int     `mapstructure:"max_retries" validate:"gte=0"`
	RateLimit       float64 `mapstructure:"rate_limit" validate:"required,gt=0"`
	CacheTTLSeconds int     `mapstructure:"cache_ttl_seconds" validate:"required,gt=0"`
	UserAgent       string  `mapstructure:"user_agent"`
	NBABaseURL      string  `mapstructure:"nba_base_url" validate:"required,url"`
	NFLBaseURL      string  `mapstructure:"nfl_base_url" validate:"required,url"`
	APIKey          string  `mapstructure:"api_key"`
}

// ModelConfig represents outcome-model training configuration
type ModelConfig struct {
	Trees           int     `mapstructure:"trees" validate:"required,gt=0"`
	MaxDepth        int     `mapstructure:"max_depth" validate:"required,gt=0"`
	MinLeaf         int     `mapstructure:"min_leaf" validate:"required,gt=0"`
	Seed            int64   `mapstructure:"seed"`
	HoldoutFraction float64 `mapstructure:"holdout_fraction" validate:"required,gt=0,lt=1"`
}

// SchedulerConfig represents cron scheduling for prediction jobs
type SchedulerConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	BasketballDaily   string `mapstructure:"basketball_daily" validate:"required"`
	FootballWeekly    string `mapstructure:"football_weekly" validate:"required"`
	ReconcileInterval string `mapstructure:"reconcile_interval" validate:"required"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
