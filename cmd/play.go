package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/np1/pms/internal/app"
)

//nolint:gochecknoglobals // Cobra command requires a global definition for proper command-line parsing and execution.
var playCmd = &cobra.Command{
	Use:   "play [flags] search term...",
	Short: "Search once and stream the selected results.",
	Example: `  pms play nina simone
  pms play --select 2-4 nina simone`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		prepareConfig(cmd)

		flags := cmd.Flags()
		req := &app.PlayRequest{Query: strings.TrimSpace(strings.Join(args, " "))}
		req.Page, _ = flags.GetInt("page")
		req.Selection, _ = flags.GetString("select")

		app.ExecutePlayCommand(cmd.Context(), appConfig, req)
	},
}

//nolint:gochecknoinits // Cobra requires the init function to set up flags before the command is executed.
func init() {
	playCmdFlags := playCmd.Flags()

	playCmdFlags.Int("page", 1, "result page to pick tracks from.")
	playCmdFlags.String("select", app.DefaultPlaySelection, "result numbers to play in order, for example 1,3-5.")

	rootCmd.AddCommand(playCmd)
}
