package cmd

import (
	"github.com/spf13/cobra"

	"github.com/np1/pms/internal/app"
	"github.com/np1/pms/internal/history"
)

//nolint:gochecknoglobals // Cobra command requires a global definition for proper command-line parsing and execution.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent searches, plays and downloads.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		prepareConfig(cmd)

		limit, _ := cmd.Flags().GetInt("limit")

		app.ExecuteHistoryCommand(cmd.Context(), appConfig, limit, cmd.OutOrStdout())
	},
}

//nolint:gochecknoinits // Cobra requires the init function to set up flags before the command is executed.
func init() {
	historyCmd.Flags().IntP("limit", "l", history.DefaultRecentLimit, "number of entries to list.")

	rootCmd.AddCommand(historyCmd)
}
