// Package config provides centralized configuration management
// using Viper for configuration loading and validation
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App      AppConfig     `mapstructure:"app"`
	Redis    RedisConfig   `mapstructure:"redis"`
	Scoring  ScoringConfig `mapstructure:"scoring"`
	Planner  PlannerConfig `mapstructure:"planner"`
	Features FeatureFlags  `mapstructure:"features"`
}

// AppConfig contains application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
	Debug       bool   `mapstructure:"debug"`
	LogLevel    string `mapstructure:"log_level"`
	LogFormat   string `mapstructure:"log_format"`
}

// RedisConfig contains Redis configuration for the shared score cache
type RedisConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Password     string        `mapstructure:"password"`
	Database     int           `mapstructure:"database"`
	MaxRetries   int           `mapstructure:"max_retries"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	PoolSize     int           `mapstructure:"pool_size"`
}

// ScoringConfig tunes the engagement scoring service
type ScoringConfig struct {
	CacheTTL          time.Duration `mapstructure:"cache_ttl"`
	DefaultWindowDays int           `mapstructure:"default_window_days"`
	DefaultLimit      int           `mapstructure:"default_limit"`
	ViralThreshold    float64       `mapstructure:"viral_threshold"`
}

// PlannerConfig tunes plan generation, preference learning and
// nutritional optimization
type PlannerConfig struct {
	HistoryLimit       int `mapstructure:"history_limit"`
	MaxOptimizerPasses int `mapstructure:"max_optimizer_passes"`
}

// FeatureFlags contains feature toggles
type FeatureFlags struct {
	EnableScoreCache bool `mapstructure:"enable_score_cache"`
	EnableRotation   bool `mapstructure:"enable_rotation"`
	EnableScheduling bool `mapstructure:"enable_scheduling"`
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/fitplate")
	}

	// Enable environment variable override
	v.SetEnvPrefix("FITPLATE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		// It's okay if config file doesn't exist, we have defaults
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	// Unmarshal configuration
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "FitPlate Engine")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.debug", false)
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.log_format", "json")

	// Redis defaults
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.database", 0)
	v.SetDefault("redis.max_retries", 3)
	v.SetDefault("redis.min_idle_conns", 2)
	v.SetDefault("redis.dial_timeout", "5s")
	v.SetDefault("redis.read_timeout", "3s")
	v.SetDefault("redis.write_timeout", "3s")
	v.SetDefault("redis.pool_size", 10)

	// Scoring defaults
	v.SetDefault("scoring.cache_ttl", "15m")
	v.SetDefault("scoring.default_window_days", 7)
	v.SetDefault("scoring.default_limit", 10)
	v.SetDefault("scoring.viral_threshold", 10.0)

	// Planner defaults
	v.SetDefault("planner.history_limit", 20)
	v.SetDefault("planner.max_optimizer_passes", 24)

	// Feature defaults
	v.SetDefault("features.enable_score_cache", true)
	v.SetDefault("features.enable_rotation", true)
	v.SetDefault("features.enable_scheduling", true)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app.name is required")
	}

	if c.Redis.Port < 1 || c.Redis.Port > 65535 {
		return fmt.Errorf("redis.port must be between 1 and 65535")
	}

	if c.Scoring.CacheTTL <= 0 {
		return fmt.Errorf("scoring.cache_ttl must be positive")
	}

	if c.Scoring.DefaultWindowDays <= 0 {
		return fmt.Errorf("scoring.default_window_days must be positive")
	}

	if c.Planner.HistoryLimit <= 0 {
		return fmt.Errorf("planner.history_limit must be positive")
	}

	if c.Planner.MaxOptimizerPasses <= 0 {
		return fmt.Errorf("planner.max_optimizer_passes must be positive")
	}

	return nil
}

// IsProduction returns true if running in production
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// IsDevelopment returns true if running in development
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// RedisAddr returns the host:port address of the Redis cache
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
