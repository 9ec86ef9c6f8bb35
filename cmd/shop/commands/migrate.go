package commands

import (
	"github.com/spf13/cobra"

	"github.com/Skotchmaster/simple_shop/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger := loadConfig()
		ctx := cmd.Context()

		gdb, err := db.Open(ctx, cfg.DBDriver, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close(gdb)

		if err := db.Migrate(ctx, gdb); err != nil {
			return err
		}
		logger.Info("migrations_applied", "driver", cfg.DBDriver)
		return nil
	},
}
