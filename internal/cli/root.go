package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// RootOptions holds the flags shared by every command.
type RootOptions struct {
	DBPath         string
	MigrationsPath string
	RedisAddr      string
}

// NewRootCommand creates the root command for the POS terminal CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "pos",
		Short: "Single-terminal point-of-sale transaction engine",
	}

	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", getEnv("POS_DB_PATH", "./pos.db"), "path to the SQLite database file")
	cmd.PersistentFlags().StringVar(&opts.MigrationsPath, "migrations", getEnv("POS_MIGRATIONS_PATH", "./internal/repository/migrations"), "path to the migrations directory")
	cmd.PersistentFlags().StringVar(&opts.RedisAddr, "redis", getEnv("POS_REDIS_ADDR", ""), "redis address for the product cache (empty disables caching)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewImportCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewResetCommand(opts))

	return cmd
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
