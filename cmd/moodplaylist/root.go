package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"moodplaylist/internal/config"
	"moodplaylist/internal/logging"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:          "moodplaylist",
	Short:        "Generate playlists for a mood from the Spotify catalog",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "TOML config file (default: $CONFIG_FILE)")
}

// loadConfig reads the configuration, honouring --config over CONFIG_FILE.
func loadConfig(validate func(*config.Config) error) (*config.Config, error) {
	if configFile != "" {
		if err := os.Setenv("CONFIG_FILE", configFile); err != nil {
			return nil, fmt.Errorf("set CONFIG_FILE: %w", err)
		}
	}
	cfg, err := config.Read()
	if err != nil {
		return nil, err
	}
	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) zerolog.Logger {
	logger := logging.New(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	logging.SetGlobalLogger(logger)
	return logger
}
