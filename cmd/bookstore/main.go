package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/erazemk/bookstore/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rootCmd := newRootCommand(config.Load())
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "bookstore: %v\n", err)
		os.Exit(1)
	}
}

// newRootCommand builds the CLI. Flags default to the values already read
// from the environment, so a flag always wins over its variable.
func newRootCommand(cfg *config.Config) *cobra.Command {
	var closeLog func()

	cmd := &cobra.Command{
		Use:   "bookstore",
		Short: "Bookstore catalog web server",
		Long: `Bookstore serves a small book catalog: list, create, edit and delete books
with cover images. Running it without a subcommand starts the server.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cleanup, err := setupLogger(cfg.LogFile)
			if err != nil {
				return err
			}
			closeLog = cleanup
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if closeLog != nil {
				closeLog()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), cfg)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&cfg.DB, "db", "d", cfg.DB, "SQLite database path or mongodb:// URI (env BOOKSTORE_DB)")
	flags.StringVar(&cfg.MongoDatabase, "mongo-database", cfg.MongoDatabase, "MongoDB database name (env BOOKSTORE_MONGO_DATABASE)")
	flags.StringVar(&cfg.PublicDir, "public", cfg.PublicDir, "directory served for unmatched paths, images live in its img/ (env BOOKSTORE_PUBLIC_DIR)")
	flags.StringVarP(&cfg.LogFile, "log", "l", cfg.LogFile, "log file path, empty for stdout/stderr only (env BOOKSTORE_LOG)")
	flags.StringVar(&cfg.S3.Endpoint, "s3-endpoint", cfg.S3.Endpoint, "S3-compatible endpoint for images, empty to keep them on disk (env BOOKSTORE_S3_ENDPOINT)")
	flags.StringVar(&cfg.S3.Bucket, "s3-bucket", cfg.S3.Bucket, "bucket for images (env BOOKSTORE_S3_BUCKET)")

	flags.StringVarP(&cfg.Port, "port", "p", cfg.Port, "listen port (env PORT)")
	flags.StringVar(&cfg.RequestLog, "request-log", cfg.RequestLog, "request log file, empty to disable (env BOOKSTORE_REQUEST_LOG)")

	cmd.AddCommand(
		newServeCmd(cfg),
		newPruneCmd(cfg),
	)
	return cmd
}
