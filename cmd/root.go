package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/np1/pms/internal/app"
	"github.com/np1/pms/internal/config"
	"github.com/np1/pms/internal/logger"
	"github.com/np1/pms/internal/version"
)

var (
	//nolint:gochecknoglobals // It is required for configuration initialization before the application starts.
	configFilenameFromFlag string

	//nolint:gochecknoglobals,lll // It is initialized once during the application's startup and shared across the command execution logic.
	appConfig *config.Config

	//nolint:gochecknoglobals,lll // Cobra command requires a global definition for proper command-line parsing and execution.
	rootCmd = &cobra.Command{
		Use:     version.Name + " [flags] [search term...]",
		Short:   version.DisplayName + ": " + version.Description + ".",
		Version: version.Short(),
		Long: version.DisplayName + ` searches a music catalog from the console,
streams results through an external player and downloads them as tagged files.

Without arguments an interactive session starts. A search term given on the
command line is searched right away. In the session type:
- a result number to play it
- d 1,3-5 (or d all) to download results
- n / p for the next or previous page
- any other text to search again
- h for help, q to quit`,
		Args:             cobra.ArbitraryArgs,
		PersistentPreRun: initConfig,
		Run: func(cmd *cobra.Command, args []string) {
			prepareConfig(cmd)

			app.ExecuteRootCommand(cmd.Context(), appConfig, args)
		},
	}
)

// Execute executes the root command.
func Execute() {
	signals := []os.Signal{syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM}
	ctx, stop := signal.NotifyContext(context.Background(), signals...)

	defer func() {
		_ = logger.Logger().Sync()
	}()

	defer stop()

	go func() {
		defer stop()

		err := rootCmd.ExecuteContext(ctx)
		cobra.CheckErr(err)
	}()

	<-ctx.Done()
}

//nolint:gochecknoinits // Cobra requires the init function to set up flags before the command is executed.
func init() {
	rootCmdFlags := rootCmd.PersistentFlags()

	rootCmdFlags.StringVarP(
		&configFilenameFromFlag,
		"config",
		"c",
		"",
		fmt.Sprintf("path to the configuration file (default is '%s')",
			config.DefaultConfigFilename))

	rootCmdFlags.StringP(
		"output",
		"o",
		"",
		"directory to save downloaded files (the path will be created if it doesn't exist).")

	rootCmdFlags.StringP(
		"player",
		"p",
		"",
		"external player command used for streaming, for example mplayer or mpv.")

	rootCmdFlags.StringP(
		"speed-limit",
		"s",
		"",
		"set download speed limit, for example: 500 kbps, 1 mbps, 1.5 mbps.")

	rootCmdFlags.Int64P(
		"results",
		"n",
		0,
		fmt.Sprintf("search results per page (%d-%d).", config.MinResultsPerPage, config.MaxResultsPerPage))

	rootCmdFlags.Int64P(
		"concurrency",
		"j",
		0,
		"number of tracks downloaded at the same time.")

	rootCmdFlags.BoolP(
		"replace",
		"r",
		false,
		"overwrite tracks that already exist.")

	rootCmdFlags.Bool(
		"tags",
		true,
		"write ID3 or Vorbis tags after a download, use --tags=false to skip.")

	rootCmdFlags.String(
		"history",
		"",
		"path to the history database, an empty value in the configuration disables history.")

	rootCmdFlags.String(
		"log-level",
		"",
		"log level: debug, info, warn or error.")
}

func initConfig(cmd *cobra.Command, _ []string) {
	var err error

	appConfig, err = config.LoadConfig(configFilenameFromFlag)
	if err != nil {
		logger.Fatalf(cmd.Context(), "Failed to load configuration: %v", err)
	}
}

// prepareConfig applies the changed flags, validates the result and sets the log level.
func prepareConfig(cmd *cobra.Command) {
	if err := bindFlagsToConfig(cmd.Flags(), appConfig); err != nil {
		logger.Fatalf(cmd.Context(), "Failed to parse flags: %v", err)
	}

	logger.SetLevel(appConfig.ParsedLogLevel)
}

//nolint:cyclop // One branch per flag.
func bindFlagsToConfig(flags *pflag.FlagSet, cfg *config.Config) error {
	if flag := flags.Lookup("output"); flag != nil && flag.Changed {
		cfg.OutputPath, _ = flags.GetString("output")
	}

	if flag := flags.Lookup("player"); flag != nil && flag.Changed {
		cfg.PlayerCommand, _ = flags.GetString("player")
	}

	if flag := flags.Lookup("speed-limit"); flag != nil && flag.Changed {
		cfg.DownloadSpeedLimit, _ = flags.GetString("speed-limit")
	}

	if flag := flags.Lookup("results"); flag != nil && flag.Changed {
		cfg.ResultsPerPage, _ = flags.GetInt64("results")
	}

	if flag := flags.Lookup("concurrency"); flag != nil && flag.Changed {
		cfg.MaxConcurrentDownloads, _ = flags.GetInt64("concurrency")
	}

	if flag := flags.Lookup("replace"); flag != nil && flag.Changed {
		cfg.ReplaceTracks, _ = flags.GetBool("replace")
	}

	if flag := flags.Lookup("tags"); flag != nil && flag.Changed {
		cfg.WriteTags, _ = flags.GetBool("tags")
	}

	if flag := flags.Lookup("history"); flag != nil && flag.Changed {
		cfg.HistoryPath, _ = flags.GetString("history")
	}

	if flag := flags.Lookup("log-level"); flag != nil && flag.Changed {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}

	return config.ValidateConfig(cfg)
}
