// Package config holds the runtime configuration of the jsontable command.
package config

import (
	"os"
	"path/filepath"
)

// Config is the full configuration. Values come from struct defaults, an
// optional YAML file, then environment variables, in increasing precedence.
type Config struct {
	Cache    CacheConfig    `yaml:"cache"`
	Logging  LoggingConfig  `yaml:"logging"`
	Defaults DefaultsConfig `yaml:"defaults"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// CacheConfig controls the on-disk result cache.
type CacheConfig struct {
	Enabled  bool   `yaml:"enabled" env:"JSONTABLE_CACHE_ENABLED" default:"true"`
	Dir      string `yaml:"dir" env:"JSONTABLE_CACHE_DIR"`
	Capacity int    `yaml:"capacity" env:"JSONTABLE_CACHE_CAPACITY" default:"128"`
}

// LoggingConfig mirrors logging.Config.
type LoggingConfig struct {
	Level       string `yaml:"level" env:"JSONTABLE_LOG_LEVEL" default:"warn"`
	Encoding    string `yaml:"encoding" env:"JSONTABLE_LOG_ENCODING" default:"console"`
	Development bool   `yaml:"development" env:"JSONTABLE_LOG_DEVELOPMENT"`
}

// DefaultsConfig supplies extraction options not set per call.
type DefaultsConfig struct {
	HeaderSeparator string `yaml:"header_separator" env:"JSONTABLE_HEADER_SEPARATOR" default:"_"`
	MergeMode       string `yaml:"merge_mode" env:"JSONTABLE_MERGE_MODE" default:"expand"`
	DetectMode      string `yaml:"detect_mode" env:"JSONTABLE_DETECT_MODE"`
}

// MetricsConfig names the textfile the command dumps metrics to on exit.
type MetricsConfig struct {
	File string `yaml:"file" env:"JSONTABLE_METRICS_FILE"`
}

// DefaultCacheDir returns the per-user cache directory for results.
func DefaultCacheDir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, "jsontable")
}
