// Package main provides the CLI entry point for jsontable.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/sasakama-code/jsontable-go/internal/config"
	"github.com/sasakama-code/jsontable-go/internal/logging"
	"github.com/sasakama-code/jsontable-go/internal/metrics"
	"github.com/sasakama-code/jsontable-go/pkg/jsontable"
	"github.com/sasakama-code/jsontable-go/pkg/jsontable/cache"
	"github.com/sasakama-code/jsontable-go/pkg/jsontable/models"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app holds the state shared by all subcommands.
type app struct {
	configPath  string
	envFile     string
	logLevel    string
	cacheDir    string
	noCache     bool
	metricsFile string

	stdout io.Writer

	cfg     *config.Config
	logger  *zap.Logger
	metrics *metrics.Metrics
	cache   *cache.Cache[models.TableData]
	loader  *jsontable.Loader
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(stdout io.Writer) *cobra.Command {
	a := &app{stdout: stdout}

	rootCmd := &cobra.Command{
		Use:   "jsontable",
		Short: "Extract JSON tables from Excel sheets",
		Long: `jsontable reads a table out of an Excel sheet, handling skipped rows,
ranges, merged cells, multi-row headers and data block detection, and
outputs JSON.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.teardown()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "YAML configuration file")
	flags.StringVar(&a.envFile, "env-file", ".env", "Environment file loaded before configuration")
	flags.StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flags.StringVar(&a.cacheDir, "cache-dir", "", "Result cache directory")
	flags.BoolVar(&a.noCache, "no-cache", false, "Disable the result cache")
	flags.StringVar(&a.metricsFile, "metrics-file", "", "Write Prometheus metrics to this file on exit")

	rootCmd.AddCommand(newExtractCmd(a), newBatchCmd(a), newCacheCmd(a))
	return rootCmd
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	if a.envFile != "" {
		if err := godotenv.Load(a.envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", a.envFile, err)
		}
	}

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}
	if a.cacheDir != "" {
		cfg.Cache.Dir = a.cacheDir
	}
	if a.noCache {
		cfg.Cache.Enabled = false
	}
	if a.metricsFile != "" {
		cfg.Metrics.File = a.metricsFile
	}
	a.cfg = cfg

	a.logger, err = logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Encoding:    cfg.Logging.Encoding,
		Development: cfg.Logging.Development,
	})
	if err != nil {
		return err
	}
	a.metrics = metrics.New()
	a.cache = cache.New[models.TableData](
		cache.NewFSStorage(cfg.Cache.Dir),
		cache.WithCapacity(cfg.Cache.Capacity),
		cache.WithLogger(a.logger.Named("cache")),
		cache.WithMetrics(a.metrics),
	)

	opts := []jsontable.LoaderOption{
		jsontable.WithLogger(a.logger.Named("loader")),
		jsontable.WithMetrics(a.metrics),
		jsontable.WithDefaults(jsontable.Options{
			HeaderSeparator: cfg.Defaults.HeaderSeparator,
			MergeMode:       cfg.Defaults.MergeMode,
			DetectMode:      cfg.Defaults.DetectMode,
		}),
	}
	if cfg.Cache.Enabled {
		opts = append(opts, jsontable.WithCache(a.cache))
	}
	a.loader = jsontable.NewLoader(opts...)

	a.logger.Debug("configuration loaded",
		zap.String("cache_dir", cfg.Cache.Dir),
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
		zap.Int("cache_capacity", cfg.Cache.Capacity))
	return nil
}

func (a *app) teardown() error {
	if a.cfg == nil {
		return nil
	}
	if err := a.metrics.WriteTextfile(a.cfg.Metrics.File); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	_ = a.logger.Sync()
	return nil
}

func writeOutput(w io.Writer, path string, data []byte) error {
	if path != "" {
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	_, err := fmt.Fprintln(w, string(data))
	return err
}
