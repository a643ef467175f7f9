// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/indiankitchen/kitchen-backend/internal/config"
)

var (
	configPath string
	verbose    bool
	timeout    time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "kitchenctl",
	Short: "Operations tooling for the Indian Kitchen backend",
	Long: `kitchenctl works directly against the configured storage backend.

Available commands:
  migrate        - copy the JSON file into MongoDB
  export         - write every collection in the JSON file layout
  create-admin   - create or promote an administrator
  sweep-sessions - delete expired sessions once`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 5*time.Minute, "operation timeout")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(createAdminCmd)
	rootCmd.AddCommand(sweepSessionsCmd)
}

func main() {
	//nolint:errcheck // .env is optional
	godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads configuration and returns a context bounded by --timeout
// that is also cancelled on SIGINT.
func setup(cmd *cobra.Command) (context.Context, context.CancelFunc, *config.Config, *slog.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	ctx, cancel := context.WithTimeout(ctx, timeout)

	return ctx, func() {
		cancel()
		stop()
	}, cfg, logger, nil
}

func closeBackend(ctx context.Context, logger *slog.Logger, name string, closer interface {
	Close(ctx context.Context) error
},
) {
	if err := closer.Close(ctx); err != nil {
		logger.Warn("close backend", "backend", name, "error", err)
	}
}

func printf(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
