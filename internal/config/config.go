// Package config provides configuration management for the options
// analytics application.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Market  MarketConfig  `mapstructure:"market"`
	Chart   ChartConfig   `mapstructure:"chart"`
	Heatmap HeatmapConfig `mapstructure:"heatmap"`
	UI      UIConfig      `mapstructure:"ui"`
	Logging LoggingConfig `mapstructure:"logging"`
	Store   StoreConfig   `mapstructure:"store"`
}

// MarketConfig holds the default market parameters supplied to the
// engine when the caller does not provide them.
type MarketConfig struct {
	RiskFreeRate  float64 `mapstructure:"risk_free_rate"`
	Volatility    float64 `mapstructure:"volatility"`
	DividendYield float64 `mapstructure:"dividend_yield"`
}

// ChartConfig holds payoff chart defaults.
type ChartConfig struct {
	PriceRange float64 `mapstructure:"price_range"` // fraction of spot
	Points     int     `mapstructure:"points"`
}

// HeatmapConfig holds heatmap grid defaults.
type HeatmapConfig struct {
	PriceRange float64 `mapstructure:"price_range"`
	PriceSteps int     `mapstructure:"price_steps"`
	DateSteps  int     `mapstructure:"date_steps"`
	Workers    int     `mapstructure:"workers"` // 0 = NumCPU
}

// UIConfig holds UI-related configuration.
type UIConfig struct {
	ColorEnabled bool   `mapstructure:"color_enabled"`
	DateFormat   string `mapstructure:"date_format"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	Console bool   `mapstructure:"console"`
	File    bool   `mapstructure:"file"`
}

// StoreConfig holds persistence configuration.
type StoreConfig struct {
	Path string `mapstructure:"path"` // SQLite database path
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".options-lab"
	}
	return filepath.Join(home, ".config", "options-lab")
}

// Default returns the built-in default configuration.
func Default() *Config {
	return &Config{
		Market: MarketConfig{
			RiskFreeRate:  0.05,
			Volatility:    0.30,
			DividendYield: 0,
		},
		Chart: ChartConfig{
			PriceRange: 0.3,
			Points:     100,
		},
		Heatmap: HeatmapConfig{
			PriceRange: 0.3,
			PriceSteps: 20,
			DateSteps:  10,
		},
		UI: UIConfig{
			ColorEnabled: true,
			DateFormat:   "2006-01-02",
		},
		Logging: LoggingConfig{
			Level:   "info",
			Console: true,
			File:    true,
		},
		Store: StoreConfig{
			Path: filepath.Join(DefaultConfigDir(), "optlab.db"),
		},
	}
}

// Load reads configuration from the given directory (or the default
// directory when empty), falling back to built-in defaults for any
// missing value. A missing config file is not an error.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)
	v.SetEnvPrefix("OPTLAB")
	v.AutomaticEnv()

	defaults := Default()
	v.SetDefault("market.risk_free_rate", defaults.Market.RiskFreeRate)
	v.SetDefault("market.volatility", defaults.Market.Volatility)
	v.SetDefault("market.dividend_yield", defaults.Market.DividendYield)
	v.SetDefault("chart.price_range", defaults.Chart.PriceRange)
	v.SetDefault("chart.points", defaults.Chart.Points)
	v.SetDefault("heatmap.price_range", defaults.Heatmap.PriceRange)
	v.SetDefault("heatmap.price_steps", defaults.Heatmap.PriceSteps)
	v.SetDefault("heatmap.date_steps", defaults.Heatmap.DateSteps)
	v.SetDefault("heatmap.workers", defaults.Heatmap.Workers)
	v.SetDefault("ui.color_enabled", defaults.UI.ColorEnabled)
	v.SetDefault("ui.date_format", defaults.UI.DateFormat)
	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.console", defaults.Logging.Console)
	v.SetDefault("logging.file", defaults.Logging.File)
	v.SetDefault("store.path", defaults.Store.Path)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Save writes the configuration to the given directory as YAML.
func Save(cfg *Config, configDir string) error {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	v := viper.New()
	v.Set("market", cfg.Market)
	v.Set("chart", cfg.Chart)
	v.Set("heatmap", cfg.Heatmap)
	v.Set("ui", cfg.UI)
	v.Set("logging", cfg.Logging)
	v.Set("store", cfg.Store)

	return v.WriteConfigAs(filepath.Join(configDir, "config.yaml"))
}
