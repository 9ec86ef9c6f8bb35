package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Skotchmaster/simple_shop/internal/config"
	"github.com/Skotchmaster/simple_shop/internal/logging"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:   "shop",
	Short: "simple_shop - product catalog, accounts and carts over HTTP",
	Long: `shop serves a small e-commerce JSON API: product management,
register/login/logout with cookie sessions, and a per-user cart with checkout.

Configuration comes from the environment, optionally seeded from a .env file.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Path to an optional .env file")
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

// loadConfig reads configuration and installs the process-wide logger.
func loadConfig() (config.Config, *slog.Logger) {
	cfg := config.Load(envFile)
	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)
	return cfg, logger
}
