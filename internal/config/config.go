// Package config handles configuration loading for fundsheet.
// It supports YAML config files with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	Extract  ExtractConfig  `mapstructure:"extract"  yaml:"extract"`
	Provider ProviderConfig `mapstructure:"provider" yaml:"provider"`
	Output   OutputConfig   `mapstructure:"output"   yaml:"output"`
	Logging  LoggingConfig  `mapstructure:"logging"  yaml:"logging"`
}

// ExtractConfig holds the extraction window and benchmark settings.
type ExtractConfig struct {
	StartYear int    `mapstructure:"start_year" yaml:"start_year"` // first fiscal year extracted
	Benchmark string `mapstructure:"benchmark"  yaml:"benchmark"`  // beta benchmark index symbol
}

// ProviderConfig holds data provider settings.
type ProviderConfig struct {
	Default string `mapstructure:"default" yaml:"default"` // e.g., "yfinance"
}

// OutputConfig holds report output settings.
type OutputConfig struct {
	Dir string `mapstructure:"dir" yaml:"dir"` // CSV output directory
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format" yaml:"format"` // "text" or "json"
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.fundsheet/config.yaml (home directory)
//  3. /etc/fundsheet/config.yaml (system)
//
// Environment variables override config file values.
// Format: FUNDSHEET_<SECTION>_<KEY>, e.g., FUNDSHEET_OUTPUT_DIR
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".fundsheet"))
	v.AddConfigPath("/etc/fundsheet")

	v.SetEnvPrefix("FUNDSHEET")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (not required to exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found — that's fine, use defaults + env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetEnvPrefix("FUNDSHEET")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks invariants that would otherwise surface deep inside a run.
func (c *Config) Validate() error {
	if c.Extract.StartYear < 1900 {
		return fmt.Errorf("extract.start_year %d is implausible", c.Extract.StartYear)
	}
	if c.Extract.StartYear > time.Now().Year() {
		return fmt.Errorf("extract.start_year %d is in the future", c.Extract.StartYear)
	}
	if c.Extract.Benchmark == "" {
		return fmt.Errorf("extract.benchmark must not be empty")
	}
	if c.Output.Dir == "" {
		return fmt.Errorf("output.dir must not be empty")
	}
	return nil
}

// YearsToExtract returns the contiguous, strictly ascending year range from
// the configured start year through the current calendar year inclusive.
// Computed from the config once per run; callers treat it as immutable.
func (c *Config) YearsToExtract() []int {
	current := time.Now().Year()
	years := make([]int, 0, current-c.Extract.StartYear+1)
	for y := c.Extract.StartYear; y <= current; y++ {
		years = append(years, y)
	}
	return years
}

// setDefaults sets sensible defaults for all config values.
func setDefaults(v *viper.Viper) {
	// Extraction defaults
	v.SetDefault("extract.start_year", 2015)
	v.SetDefault("extract.benchmark", "^GSPC")

	// Provider defaults
	v.SetDefault("provider.default", "yfinance")

	// Output defaults
	v.SetDefault("output.dir", "output")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
