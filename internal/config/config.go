// Package config handles configuration loading and validation for codectx.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	// DefaultConfigFile is the default configuration file name (without extension).
	DefaultConfigFile = ".codectx"
	// DefaultConfigType is the default configuration file type.
	DefaultConfigType = "yaml"
	// DefaultMaxFileSize is the per-file size limit in bytes.
	DefaultMaxFileSize = 1 << 20
)

// Config holds all configuration for codectx.
type Config struct {
	// Scan controls file discovery and analysis.
	Scan ScanConfig `mapstructure:"scan" yaml:"scan"`
	// Output controls report serialization.
	Output OutputConfig `mapstructure:"output" yaml:"output"`
	// Cache controls the persistent record cache.
	Cache CacheConfig `mapstructure:"cache" yaml:"cache"`
}

// ScanConfig controls file discovery and analysis.
type ScanConfig struct {
	// MaxFileSize is the per-file size limit in bytes.
	MaxFileSize int64 `mapstructure:"max_file_size" yaml:"max_file_size"`
	// Workers bounds the analysis pool; 0 means one per CPU.
	Workers int `mapstructure:"workers" yaml:"workers"`
	// Exclude lists gitignore-style patterns applied on top of .gitignore.
	Exclude []string `mapstructure:"exclude" yaml:"exclude"`
	// IncludeTests keeps test files in the scan.
	IncludeTests bool `mapstructure:"include_tests" yaml:"include_tests"`
}

// OutputConfig controls report serialization.
type OutputConfig struct {
	// File is the output path; empty derives <repo>_code_context.<format>.
	File string `mapstructure:"file" yaml:"file"`
	// Format is json or jsonl.
	Format string `mapstructure:"format" yaml:"format"`
	// Dir is where derived output files are placed.
	Dir string `mapstructure:"dir" yaml:"dir"`
}

// CacheConfig controls the persistent record cache.
type CacheConfig struct {
	// Enabled turns the cache on.
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	// Dir is the cache database directory.
	Dir string `mapstructure:"dir" yaml:"dir"`
}

// Load loads configuration from file, environment variables, and defaults.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	// A config file set via CLI flag lives in the global viper.
	globalViper := viper.GetViper()
	if configFile := globalViper.GetString("config_file"); configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(DefaultConfigFile)
		v.SetConfigType(DefaultConfigType)
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("CODECTX")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}
	return &cfg, nil
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Scan.MaxFileSize < 0 {
		return fmt.Errorf("scan.max_file_size must not be negative, got %d", c.Scan.MaxFileSize)
	}
	if c.Scan.Workers < 0 {
		return fmt.Errorf("scan.workers must not be negative, got %d", c.Scan.Workers)
	}
	if f := c.Output.Format; f != "json" && f != "jsonl" {
		return fmt.Errorf("output.format must be 'json' or 'jsonl', got %q", f)
	}
	if c.Cache.Enabled && c.Cache.Dir == "" {
		return fmt.Errorf("cache.dir is required when the cache is enabled")
	}
	return nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("scan.max_file_size", DefaultMaxFileSize)
	v.SetDefault("scan.workers", 0)
	v.SetDefault("scan.exclude", []string{})
	v.SetDefault("scan.include_tests", false)

	v.SetDefault("output.file", "")
	v.SetDefault("output.format", "json")
	v.SetDefault("output.dir", "output")

	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.dir", ".codectx-cache")
}
