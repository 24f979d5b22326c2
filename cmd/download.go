package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/np1/pms/internal/app"
)

//nolint:gochecknoglobals // Cobra command requires a global definition for proper command-line parsing and execution.
var downloadCmd = &cobra.Command{
	Use:   "download [flags] [search term...]",
	Short: "Download search results or tracks by id without the interactive session.",
	Example: `  pms download --select 1-3 pink floyd
  pms download --page 2 beethoven
  pms download --id 1234567 --id 7654321
  pms download --from-file ids.txt`,
	Args: cobra.ArbitraryArgs,
	Run: func(cmd *cobra.Command, args []string) {
		prepareConfig(cmd)

		flags := cmd.Flags()
		req := &app.DownloadRequest{Query: strings.TrimSpace(strings.Join(args, " "))}
		req.Page, _ = flags.GetInt("page")
		req.Selection, _ = flags.GetString("select")
		req.TrackIDs, _ = flags.GetStringSlice("id")
		req.IDsFile, _ = flags.GetString("from-file")

		app.ExecuteDownloadCommand(cmd.Context(), appConfig, req)
	},
}

//nolint:gochecknoinits // Cobra requires the init function to set up flags before the command is executed.
func init() {
	downloadCmdFlags := downloadCmd.Flags()

	downloadCmdFlags.Int("page", 1, "result page to pick tracks from.")
	downloadCmdFlags.String("select", app.DefaultDownloadSelection, "result numbers to download, for example 1,3-5.")
	downloadCmdFlags.StringSlice("id", nil, "catalog track id to download, may be repeated.")
	downloadCmdFlags.StringP("from-file", "f", "", "file with one track id per line.")

	rootCmd.AddCommand(downloadCmd)
}
