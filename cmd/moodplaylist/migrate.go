package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"moodplaylist/internal/config"
	"moodplaylist/internal/store"
)

var migrateCmd = &cobra.Command{
	Use:       "migrate [up|down]",
	Short:     "Apply or roll back the Postgres schema",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{string(store.Up), string(store.Down)},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig((*config.Config).ValidateStorage)
		if err != nil {
			return err
		}
		if cfg.Storage.Driver != config.DriverPostgres {
			return fmt.Errorf("migrations apply to the postgres driver only, STORAGE_DRIVER is %q", cfg.Storage.Driver)
		}
		logger := newLogger(cfg)

		db, err := store.OpenPostgres(cmd.Context(), cfg.Storage.Postgres.DSN())
		if err != nil {
			return err
		}
		defer db.Close()

		direction := store.Direction(args[0])
		if err := store.MigratePostgres(db, direction); err != nil {
			return err
		}
		logger.Info().Str("direction", string(direction)).Msg("migrations applied")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
