package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	api "github.com/itsprade/good-morning/cmd/api"
	"github.com/itsprade/good-morning/pkg/config"
	"github.com/itsprade/good-morning/pkg/logger"
)

var rootCmd *cobra.Command

func init() {
	rootCmd = &cobra.Command{
		Use:   "goodmorning",
		Short: "Good Morning - daily briefing backend",
		Long: `Good Morning syncs Google Calendar and Gmail, turns emails into suggested
tasks and writes a short summary of the day.

Without a subcommand the API server is started.`,
		RunE:          runServe,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
}

// Execute runs the root command
func Execute() error {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(resetUserCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

// setup loads the configuration, starts logging and wires the application.
func setup(ctx context.Context) (*api.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if _, err := logger.Init(cfg.LogLevel, cfg.Env); err != nil {
		return nil, fmt.Errorf("failed to init logger: %w", err)
	}
	return api.NewApp(ctx, cfg)
}
