package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/np1/pms/internal/logger"
	"github.com/np1/pms/internal/utils"
)

// Config holds all configuration settings.
type Config struct {
	// ServiceBaseURL is the base URL of the remote catalog service.
	ServiceBaseURL string `mapstructure:"service_base_url"`
	// PlayerCommand is the external player executable used for streaming.
	PlayerCommand string `mapstructure:"player_command"`
	// PlayerArgs are passed to the player before the stream URL.
	PlayerArgs []string `mapstructure:"player_args"`
	// OutputPath is the directory where downloaded tracks are saved.
	OutputPath string `mapstructure:"output_path"`
	// TrackFilenameTemplate is the template for naming downloaded track files.
	TrackFilenameTemplate string `mapstructure:"track_filename_template"`
	// ResultsPerPage is the number of search results shown per page.
	ResultsPerPage int64 `mapstructure:"results_per_page"`
	// DownloadSpeedLimit sets the maximum download speed (e.g., "1MB", "500KB").
	DownloadSpeedLimit string `mapstructure:"download_speed_limit"`
	// ReplaceTracks indicates whether existing track files are overwritten.
	ReplaceTracks bool `mapstructure:"replace_tracks"`
	// WriteTags indicates whether ID3 or Vorbis tags are written after a download.
	WriteTags bool `mapstructure:"write_tags"`
	// MaxConcurrentDownloads is the maximum number of tracks downloaded simultaneously.
	MaxConcurrentDownloads int64 `mapstructure:"max_concurrent_downloads"`
	// RetryAttemptsCount is the number of attempts for a catalog request.
	RetryAttemptsCount int64 `mapstructure:"retry_attempts_count"`
	// MinRetryPause is the minimum pause before a retry.
	MinRetryPause string `mapstructure:"min_retry_pause"`
	// MaxRetryPause is the maximum pause before a retry.
	MaxRetryPause string `mapstructure:"max_retry_pause"`
	// RequestTimeout bounds a single catalog request.
	RequestTimeout string `mapstructure:"request_timeout"`
	// HistoryPath is the sqlite history database. Empty disables history.
	HistoryPath string `mapstructure:"history_path"`
	// LogLevel specifies the logging verbosity level.
	LogLevel string `mapstructure:"log_level"`
	// ParsedDownloadSpeedLimit is the parsed download speed limit in bytes per second.
	ParsedDownloadSpeedLimit int64 `mapstructure:"-"`
	// ParsedLogLevel is the parsed zap log level.
	ParsedLogLevel zapcore.Level `mapstructure:"-"`
	// ParsedMinRetryPause is the parsed minimum retry pause.
	ParsedMinRetryPause time.Duration `mapstructure:"-"`
	// ParsedMaxRetryPause is the parsed maximum retry pause.
	ParsedMaxRetryPause time.Duration `mapstructure:"-"`
	// ParsedRequestTimeout is the parsed request timeout.
	ParsedRequestTimeout time.Duration `mapstructure:"-"`
}

const (
	// DefaultConfigFilename is the default name of the configuration file.
	DefaultConfigFilename = ".pms.yaml"

	// DefaultServiceBaseURL is the catalog service queried when none is configured.
	DefaultServiceBaseURL = "https://pleer.net"

	// DefaultPlayerCommand is the external player used for streaming.
	DefaultPlayerCommand = "mplayer"

	// DefaultTrackFilenameTemplate is the default template for naming downloaded track files.
	DefaultTrackFilenameTemplate = "{{.trackArtist}} - {{.trackTitle}}"

	// DefaultMaxLogLength is the maximum number of bytes of a request or response body written to the debug log.
	DefaultMaxLogLength = 1 * 1024 * 1024 // 1 MB

	// MinResultsPerPage is the smallest accepted page size.
	MinResultsPerPage = 1
	// MaxResultsPerPage is the largest accepted page size.
	MaxResultsPerPage = 100
)

// Static error definitions for better error handling.
var (
	// ErrInvalidConfigFile indicates that an existing config file cannot be extended.
	ErrInvalidConfigFile = errors.New("invalid config file")
	// ErrInvalidServiceURL indicates that the catalog base URL is not an absolute http(s) URL.
	ErrInvalidServiceURL = errors.New("service_base_url must be an absolute http(s) URL")
	// ErrEmptyPlayerCommand indicates that no player executable is configured.
	ErrEmptyPlayerCommand = errors.New("player_command cannot be empty")
	// ErrEmptyOutputPath indicates that no download directory is configured.
	ErrEmptyOutputPath = errors.New("output_path cannot be empty")
	// ErrInvalidResultsPerPage indicates that the page size is out of range.
	ErrInvalidResultsPerPage = errors.New("invalid results_per_page")
	// ErrUnknownLogLevel indicates that the log level is not recognized.
	ErrUnknownLogLevel = errors.New("unknown log level")
	// ErrInvalidRetryAttempts indicates that the retry attempts count is invalid.
	ErrInvalidRetryAttempts = errors.New("retry attempts count must a positive integer")
	// ErrInvalidMinRetryPause indicates that the min retry pause duration is invalid.
	ErrInvalidMinRetryPause = errors.New("min_retry_pause must be positive")
	// ErrInvalidMaxRetryPause indicates that the max retry pause duration is invalid.
	ErrInvalidMaxRetryPause = errors.New("max_retry_pause must be positive")
	// ErrMaxRetryPauseTooLow indicates that max_retry_pause is lower than min_retry_pause.
	ErrMaxRetryPauseTooLow = errors.New("max_retry_pause cannot be lower than min_retry_pause")
	// ErrInvalidRequestTimeout indicates that the request timeout is invalid.
	ErrInvalidRequestTimeout = errors.New("request_timeout must be positive")
	// ErrInvalidConcurrentDownloads indicates that the concurrent downloads count is invalid.
	ErrInvalidConcurrentDownloads = errors.New("max concurrent downloads must be a positive integer")
)

// LoadConfig reads settings from a YAML file on top of the built-in defaults.
// When configFilename is empty the default file is used, and its absence is not an error.
func LoadConfig(configFilename string) (*Config, error) {
	isDefaultFile := configFilename == ""
	if isDefaultFile {
		configFilename = DefaultConfigFilename
	}

	v := viper.New()
	registerDefaults(v)
	v.SetConfigFile(configFilename)

	if err := v.ReadInConfig(); err != nil {
		if !isDefaultFile || !isNotExist(err) {
			return nil, fmt.Errorf("failed to read config from file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Default returns a configuration built only from the defaults.
func Default() *Config {
	v := viper.New()
	registerDefaults(v)

	var cfg Config
	// Defaults are plain values of the right types.
	_ = v.Unmarshal(&cfg)

	return &cfg
}

// ValidateConfig checks the configuration for validity and sets derived fields.
//
//nolint:funlen,cyclop // Validation functions naturally have high complexity and length due to sequential checks.
func ValidateConfig(cfg *Config) error {
	var (
		downloadSpeedLimit       = strings.TrimSpace(cfg.DownloadSpeedLimit)
		parsedDownloadSpeedLimit uint64
		err                      error
	)

	cfg.ServiceBaseURL = strings.TrimRight(strings.TrimSpace(cfg.ServiceBaseURL), "/")

	baseURL, err := url.Parse(cfg.ServiceBaseURL)
	if err != nil || baseURL.Host == "" || (baseURL.Scheme != "http" && baseURL.Scheme != "https") {
		return fmt.Errorf("%w: '%s'", ErrInvalidServiceURL, cfg.ServiceBaseURL)
	}

	cfg.PlayerCommand = strings.TrimSpace(cfg.PlayerCommand)
	if cfg.PlayerCommand == "" {
		return ErrEmptyPlayerCommand
	}

	if strings.TrimSpace(cfg.OutputPath) == "" {
		return ErrEmptyOutputPath
	}

	cfg.OutputPath = ExpandPath(strings.TrimSpace(cfg.OutputPath))
	cfg.HistoryPath = ExpandPath(strings.TrimSpace(cfg.HistoryPath))

	if cfg.ResultsPerPage < MinResultsPerPage || cfg.ResultsPerPage > MaxResultsPerPage {
		return fmt.Errorf("%w: must be between %d and %d",
			ErrInvalidResultsPerPage, MinResultsPerPage, MaxResultsPerPage)
	}

	parsedLogLevel, isLogLevelCorrect := logger.ParseLogLevel(cfg.LogLevel)
	if !isLogLevelCorrect {
		return fmt.Errorf("%w: '%s'", ErrUnknownLogLevel, cfg.LogLevel)
	}

	cfg.ParsedLogLevel = parsedLogLevel

	if downloadSpeedLimit != "" && downloadSpeedLimit != "0" {
		parsedDownloadSpeedLimit, err = humanize.ParseBytes(downloadSpeedLimit)
		if err != nil {
			return fmt.Errorf("failed to parse download speed limit: %w", err)
		}
	}

	cfg.ParsedDownloadSpeedLimit = utils.SafeUint64ToInt64(parsedDownloadSpeedLimit)

	if cfg.RetryAttemptsCount <= 0 {
		return ErrInvalidRetryAttempts
	}

	cfg.ParsedMinRetryPause, err = time.ParseDuration(cfg.MinRetryPause)
	if err != nil {
		return fmt.Errorf("failed to parse min retry pause: %w", err)
	}

	if cfg.ParsedMinRetryPause <= 0 {
		return ErrInvalidMinRetryPause
	}

	cfg.ParsedMaxRetryPause, err = time.ParseDuration(cfg.MaxRetryPause)
	if err != nil {
		return fmt.Errorf("failed to parse max retry pause: %w", err)
	}

	if cfg.ParsedMaxRetryPause <= 0 {
		return ErrInvalidMaxRetryPause
	}

	if cfg.ParsedMaxRetryPause < cfg.ParsedMinRetryPause {
		return ErrMaxRetryPauseTooLow
	}

	cfg.ParsedRequestTimeout, err = time.ParseDuration(cfg.RequestTimeout)
	if err != nil {
		return fmt.Errorf("failed to parse request timeout: %w", err)
	}

	if cfg.ParsedRequestTimeout <= 0 {
		return ErrInvalidRequestTimeout
	}

	if cfg.MaxConcurrentDownloads <= 0 {
		return ErrInvalidConcurrentDownloads
	}

	return nil
}

// ExpandPath replaces a leading "~" with the current user's home directory.
// Paths that do not start with "~" are returned unchanged.
func ExpandPath(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") && !strings.HasPrefix(path, `~\`) {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	if path == "~" {
		return home
	}

	return filepath.Join(home, path[2:])
}

func isNotExist(err error) bool {
	var notFound viper.ConfigFileNotFoundError

	return errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)
}
