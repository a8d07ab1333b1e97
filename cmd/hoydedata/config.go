package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/cobra"

	"github.com/twpayne/go-hoydedata"
)

// Config holds the configuration, loaded from environment variables and
// overridden by command-line flags.
type Config struct {
	LogLevel   string  `env:"LOG_LEVEL" envDefault:"INFO"`
	Dir        string  `env:"HOYDEDATA_DIR" envDefault:"."`
	Resolution float64 `env:"HOYDEDATA_RESOLUTION" envDefault:"10"`
	Mounter    string  `env:"HOYDEDATA_MOUNTER" envDefault:"fuse-zip"`
}

// loadConfig loads the configuration for cmd.
func loadConfig(cmd *cobra.Command) (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("dir") {
		cfg.Dir, _ = flags.GetString("dir")
	}
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("mounter") {
		cfg.Mounter, _ = flags.GetString("mounter")
	}
	if flags.Lookup("resolution") != nil && flags.Changed("resolution") {
		cfg.Resolution, _ = flags.GetFloat64("resolution")
	}
	return cfg, nil
}

// newStore returns a new Store for c.
func (c *Config) newStore(logger *slog.Logger) (*hoydedata.Store, error) {
	var mounter hoydedata.Mounter
	switch c.Mounter {
	case "fuse-zip":
		mounter = hoydedata.FuseZipMounter{}
	case "extract":
		mounter = hoydedata.ExtractMounter{}
	default:
		return nil, fmt.Errorf("%s: unknown mounter", c.Mounter)
	}
	return hoydedata.NewStore(c.Dir,
		hoydedata.WithLogger(logger),
		hoydedata.WithMounter(mounter),
	), nil
}

func createLogger(cfg Config) *slog.Logger {
	var programLevel slog.Level
	switch strings.ToUpper(cfg.LogLevel) {
	case "DEBUG":
		programLevel = slog.LevelDebug
	case "INFO":
		programLevel = slog.LevelInfo
	case "WARN":
		programLevel = slog.LevelWarn
	case "ERROR":
		programLevel = slog.LevelError
	default:
		programLevel = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level:     programLevel,
		AddSource: programLevel <= slog.LevelDebug,
	}).WithAttrs([]slog.Attr{slog.String("app", appName)})
	return slog.New(handler)
}

// withStore loads the configuration for cmd, creates a Store, and calls f.
// All archives mounted by f are unmounted afterwards.
func withStore(cmd *cobra.Command, f func(Config, *hoydedata.Store) error) (err error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := createLogger(cfg)
	s, err := cfg.newStore(logger)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := s.Close(); closeErr != nil {
			logger.Error("failed to unmount archives", "error", closeErr)
			if err == nil {
				err = closeErr
			}
		}
	}()
	return f(cfg, s)
}
