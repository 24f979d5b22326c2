package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/np1/pms/internal/config"
	"github.com/np1/pms/internal/constants"
	"github.com/np1/pms/internal/version"
)

const testBaseConfigContent = `
service_base_url: "https://catalog.example.com"
player_command: "mpv"
player_args: []
output_path: "/config/output"
track_filename_template: "{{.trackArtist}} - {{.trackTitle}}"
results_per_page: 15
download_speed_limit: "500KB"
replace_tracks: false
write_tags: true
max_concurrent_downloads: 1
retry_attempts_count: 3
min_retry_pause: "1s"
max_retry_pause: "3s"
request_timeout: "30s"
history_path: ""
log_level: "info"
`

// newTestCommand returns a command carrying the same persistent flags as the root command.
func newTestCommand() *cobra.Command {
	testCmd := &cobra.Command{Use: "test"}

	flags := testCmd.Flags()
	flags.StringP("output", "o", "", "output directory")
	flags.StringP("player", "p", "", "player command")
	flags.StringP("speed-limit", "s", "", "download speed limit")
	flags.Int64P("results", "n", 0, "results per page")
	flags.Int64P("concurrency", "j", 0, "concurrent downloads")
	flags.BoolP("replace", "r", false, "replace tracks")
	flags.Bool("tags", true, "write tags")
	flags.String("history", "", "history database")
	flags.String("log-level", "", "log level")

	return testCmd
}

func loadTestConfig(t *testing.T, content string) *config.Config {
	t.Helper()

	configPath := filepath.Join(t.TempDir(), "test-config.yaml")

	err := os.WriteFile(
		configPath,
		[]byte(content),
		constants.DefaultFilePermissions,
	) //nolint:gosec // It's a test file.
	require.NoError(t, err)

	cfg, err := config.LoadConfig(configPath)
	require.NoError(t, err)

	return cfg
}

// TestFlagOverrides tests that command-line flags correctly override configuration file values.
//
//nolint:funlen // It's a comprehensive table of flag combinations.
func TestFlagOverrides(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		flags          map[string]string
		expectedConfig func(*testing.T, *config.Config)
	}{
		{
			name:  "no flags - use config values",
			flags: map[string]string{},
			expectedConfig: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				assert.Equal(t, "/config/output", cfg.OutputPath)
				assert.Equal(t, "mpv", cfg.PlayerCommand)
				assert.Equal(t, "500KB", cfg.DownloadSpeedLimit)
				assert.Equal(t, int64(15), cfg.ResultsPerPage)
				assert.True(t, cfg.WriteTags)
			},
		},
		{
			name:  "output flag only - override output path",
			flags: map[string]string{"output": "/flag/output"},
			expectedConfig: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				assert.Equal(t, "/flag/output", cfg.OutputPath)
				assert.Equal(t, "mpv", cfg.PlayerCommand)
				assert.Equal(t, "500KB", cfg.DownloadSpeedLimit)
			},
		},
		{
			name:  "player flag only - override player",
			flags: map[string]string{"player": "mplayer"},
			expectedConfig: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				assert.Equal(t, "mplayer", cfg.PlayerCommand)
				assert.Equal(t, "/config/output", cfg.OutputPath)
			},
		},
		{
			name:  "speed-limit flag only - override speed limit",
			flags: map[string]string{"speed-limit": "1MB"},
			expectedConfig: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				assert.Equal(t, "1MB", cfg.DownloadSpeedLimit)
				assert.Equal(t, int64(1_000_000), cfg.ParsedDownloadSpeedLimit)
			},
		},
		{
			name:  "results and concurrency flags - partial override",
			flags: map[string]string{"results": "50", "concurrency": "4"},
			expectedConfig: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				assert.Equal(t, int64(50), cfg.ResultsPerPage)
				assert.Equal(t, int64(4), cfg.MaxConcurrentDownloads)
				assert.Equal(t, "/config/output", cfg.OutputPath)
			},
		},
		{
			name:  "replace and tags flags - boolean overrides",
			flags: map[string]string{"replace": "true", "tags": "false"},
			expectedConfig: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				assert.True(t, cfg.ReplaceTracks)
				assert.False(t, cfg.WriteTags)
			},
		},
		{
			name:  "history and log-level flags - override",
			flags: map[string]string{"history": "/tmp/pms-history.db", "log-level": "debug"},
			expectedConfig: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				assert.Equal(t, "/tmp/pms-history.db", cfg.HistoryPath)
				assert.Equal(t, "debug", cfg.LogLevel)
				assert.Equal(t, "debug", cfg.ParsedLogLevel.String())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := loadTestConfig(t, testBaseConfigContent)
			testCmd := newTestCommand()

			for flagName, flagValue := range tt.flags {
				require.NoError(t, testCmd.Flags().Set(flagName, flagValue), "failed to set flag %s", flagName)
			}

			err := bindFlagsToConfig(testCmd.Flags(), cfg)
			require.NoError(t, err)

			tt.expectedConfig(t, cfg)
		})
	}
}

// TestFlagOverrides_InvalidValues tests that invalid flag values are caught during validation.
func TestFlagOverrides_InvalidValues(t *testing.T) {
	t.Parallel()

	invalidTests := []struct {
		name      string
		flagName  string
		flagValue string
		wantErr   error
	}{
		{
			name:      "results too high",
			flagName:  "results",
			flagValue: "101",
			wantErr:   config.ErrInvalidResultsPerPage,
		},
		{
			name:      "zero concurrency",
			flagName:  "concurrency",
			flagValue: "0",
			wantErr:   config.ErrInvalidConcurrentDownloads,
		},
		{
			name:      "blank player",
			flagName:  "player",
			flagValue: "  ",
			wantErr:   config.ErrEmptyPlayerCommand,
		},
		{
			name:      "unknown log level",
			flagName:  "log-level",
			flagValue: "chatty",
			wantErr:   config.ErrUnknownLogLevel,
		},
	}

	for _, tt := range invalidTests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := loadTestConfig(t, testBaseConfigContent)
			testCmd := newTestCommand()

			require.NoError(t, testCmd.Flags().Set(tt.flagName, tt.flagValue))

			err := bindFlagsToConfig(testCmd.Flags(), cfg)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

// TestFlagOverrides_InvalidSpeedLimit tests that an unparsable speed limit is rejected.
func TestFlagOverrides_InvalidSpeedLimit(t *testing.T) {
	t.Parallel()

	cfg := loadTestConfig(t, testBaseConfigContent)
	testCmd := newTestCommand()

	require.NoError(t, testCmd.Flags().Set("speed-limit", "invalid-speed"))

	err := bindFlagsToConfig(testCmd.Flags(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse download speed limit")
}

// TestBindFlagsToConfig_EmptyFlagSet tests that the defaults alone are valid.
func TestBindFlagsToConfig_EmptyFlagSet(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	emptyFlags := pflag.NewFlagSet("test", pflag.ContinueOnError)

	require.NoError(t, bindFlagsToConfig(emptyFlags, cfg))
}

// TestRootCommand_Layout tests the entry point name and the registered subcommands.
func TestRootCommand_Layout(t *testing.T) {
	t.Parallel()

	assert.True(t, strings.HasPrefix(rootCmd.Use, version.Name+" "))
	assert.Equal(t, version.Short(), rootCmd.Version)

	names := make([]string, 0, len(rootCmd.Commands()))
	for _, command := range rootCmd.Commands() {
		names = append(names, command.Name())
	}

	for _, expected := range []string{"download", "play", "history", "init", "version"} {
		assert.Contains(t, names, expected)
	}

	for _, flagName := range []string{"config", "output", "player", "speed-limit", "results", "concurrency"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(flagName), "missing flag %s", flagName)
	}
}

// TestVersionCommand tests the plain and verbose version output.
//
//nolint:paralleltest // It runs the shared version command.
func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer

	versionCmd.SetOut(&out)
	t.Cleanup(func() { versionCmd.SetOut(nil) })

	require.NoError(t, versionCmd.Flags().Set("verbose", "false"))
	require.NoError(t, versionCmd.RunE(versionCmd, nil))
	assert.Equal(t, version.Name+" "+version.Full()+"\n", out.String())

	out.Reset()

	require.NoError(t, versionCmd.Flags().Set("verbose", "true"))
	t.Cleanup(func() { _ = versionCmd.Flags().Set("verbose", "false") })
	require.NoError(t, versionCmd.RunE(versionCmd, nil))

	var metadata version.Metadata

	require.NoError(t, json.Unmarshal(out.Bytes(), &metadata))
	assert.Equal(t, version.Info(), metadata)
}

// TestDistributionFiles tests that the license and readme ship next to the entry point.
func TestDistributionFiles(t *testing.T) {
	t.Parallel()

	require.FileExists(t, filepath.Join("..", "main.go"))

	license, err := os.ReadFile(filepath.Join("..", "LICENSE"))
	require.NoError(t, err)
	assert.Contains(t, string(license), "GNU GENERAL PUBLIC LICENSE")
	assert.Contains(t, string(license), "Version 3")
	assert.Contains(t, version.License, "GPLv3")

	readme, err := os.ReadFile(filepath.Join("..", "README.md"))
	require.NoError(t, err)
	assert.Contains(t, string(readme), version.Name)
	assert.Contains(t, string(readme), version.Description)
}
