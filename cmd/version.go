package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/np1/pms/internal/version"
)

//nolint:gochecknoglobals // Cobra command requires a global definition for proper command-line parsing and execution.
var versionCmd = &cobra.Command{
	Use:              "version",
	Short:            "Print version information.",
	Args:             cobra.NoArgs,
	PersistentPreRun: func(*cobra.Command, []string) {},
	RunE: func(cmd *cobra.Command, _ []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		if !verbose {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), version.Name, version.Full())

			return err
		}

		content, err := json.MarshalIndent(version.Info(), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal version info: %w", err)
		}

		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(content))

		return err
	},
}

//nolint:gochecknoinits // Cobra requires the init function to set up flags before the command is executed.
func init() {
	versionCmd.Flags().BoolP("verbose", "v", false, "print the full package metadata as JSON.")

	rootCmd.AddCommand(versionCmd)
}
