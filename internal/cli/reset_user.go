package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetEmail string

var resetUserCmd = &cobra.Command{
	Use:   "reset-user",
	Short: "Delete a user's synced data so onboarding runs again",
	Long: `Delete the events, email actions, tasks and summaries of one user and clear
the last sync time. The account and its Google connection are kept.

Example:
  goodmorning reset-user --email ana@example.com`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()

		user, err := app.ResetUser(resetEmail)
		if err != nil {
			return fmt.Errorf("failed to reset %s: %w", resetEmail, err)
		}
		fmt.Printf("Reset %s (%s). The next dashboard visit runs the initial sync.\n", user.Email, user.ID)
		return nil
	},
}

func init() {
	resetUserCmd.Flags().StringVar(&resetEmail, "email", "", "email of the user to reset")
	_ = resetUserCmd.MarkFlagRequired("email")
}
