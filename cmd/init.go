package cmd

import (
	"github.com/spf13/cobra"

	"github.com/np1/pms/internal/app"
	"github.com/np1/pms/internal/config"
)

//nolint:gochecknoglobals // Cobra command requires a global definition for proper command-line parsing and execution.
var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a documented configuration file, or add missing keys to an existing one.",
	Long: `Writes every setting with its default value and a comment.
The path defaults to --config, then to ` + config.DefaultConfigFilename + `.
An existing file keeps its values, comments and key order; only missing keys are appended.`,
	Args: cobra.MaximumNArgs(1),
	// The file may not exist or be incomplete yet.
	PersistentPreRun: func(*cobra.Command, []string) {},
	Run: func(cmd *cobra.Command, args []string) {
		path := configFilenameFromFlag
		if len(args) > 0 {
			path = args[0]
		}

		app.ExecuteInitCommand(cmd.Context(), path)
	},
}

//nolint:gochecknoinits // Cobra requires the init function to set up flags before the command is executed.
func init() {
	rootCmd.AddCommand(initCmd)
}
