// Command worker runs one-off maintenance jobs against the catalog store.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "worker",
	Short: "Maintenance jobs for the portfolio catalog",
	Long: `worker runs maintenance jobs against the configured document store.
Store selection and credentials come from the same environment as the API
(STORE_DRIVER, MONGO_URI, DB_DSN, REDIS_URL, ...).`,
	Version:      version,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(syncImagesCmd)
	rootCmd.AddCommand(deleteBySlugCmd)
}
