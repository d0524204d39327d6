package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	api "github.com/itsprade/good-morning/cmd/api"
	"github.com/itsprade/good-morning/internal/syncer/usecase"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run a batch sync once and print the result as JSON",
	Long: `Run one batch over every user with a Google credential.

Examples:
  goodmorning sync daily
  goodmorning sync gmail
  goodmorning sync calendars`,
}

func init() {
	syncCmd.AddCommand(batchCmd("daily", "Calendar, mail and morning briefing", func(a *api.App) batchFunc { return a.Syncer.DailySync }))
	syncCmd.AddCommand(batchCmd("gmail", "Mail sync only", func(a *api.App) batchFunc { return a.Syncer.SyncAllMail }))
	syncCmd.AddCommand(batchCmd("calendars", "Calendar sync only", func(a *api.App) batchFunc { return a.Syncer.SyncAllCalendars }))
}

type batchFunc func(ctx context.Context) (*usecase.BatchResult, error)

func batchCmd(name, short string, pick func(*api.App) batchFunc) *cobra.Command {
	return &cobra.Command{
		Use:   name,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app, err := setup(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			batch, err := pick(app)(ctx)
			if err != nil {
				return fmt.Errorf("%s sync failed: %w", name, err)
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(batch)
		},
	}
}
