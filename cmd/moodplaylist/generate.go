package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"moodplaylist/internal/config"
)

var generateCmd = &cobra.Command{
	Use:   "generate <mood>",
	Short: "Generate and store a playlist for a mood, printing it as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig((*config.Config).Validate)
		if err != nil {
			return err
		}
		logger := newLogger(cfg)
		ctx := logger.WithContext(cmd.Context())

		playlistStore, err := openStore(ctx, cfg.Storage)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer playlistStore.Close()

		playlist, err := newPlaylistService(cfg, playlistStore).GenerateByName(ctx, args[0])
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(playlist)
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
}
