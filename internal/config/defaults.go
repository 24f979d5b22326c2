package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/np1/pms/internal/constants"
)

// defaultSetting is one documented configuration key with its default value.
type defaultSetting struct {
	key     string
	value   any
	comment string
}

// defaultSettings lists every key in the order it is written to a new configuration file.
//
//nolint:gochecknoglobals // Immutable table of defaults.
var defaultSettings = []defaultSetting{
	{"service_base_url", DefaultServiceBaseURL, "Catalog service queried for searches and track links."},
	{"player_command", DefaultPlayerCommand, "External player used for streaming."},
	{"player_args", []string{"-really-quiet", "-nolirc"}, "Arguments passed to the player before the stream URL."},
	{"output_path", "~/Music/pms", "Directory for downloaded tracks."},
	{"track_filename_template", DefaultTrackFilenameTemplate,
		"Available tags: trackArtist, trackTitle, trackID, trackNumber, trackNumberPad, bitrate, duration."},
	{"results_per_page", 20, "Search results listed per page (1-100)."},
	{"download_speed_limit", "", "Maximum download speed, for example 500 KB or 1.5 MB. Empty means unlimited."},
	{"replace_tracks", false, "Overwrite files that already exist."},
	{"write_tags", true, "Write ID3 or Vorbis tags after a download."},
	{"max_concurrent_downloads", 1, "Tracks downloaded at the same time. Progress bars are shown only for 1."},
	{"retry_attempts_count", 3, "Attempts for a failed catalog request."},
	{"min_retry_pause", "1s", "Minimum pause before a retry."},
	{"max_retry_pause", "3s", "Maximum pause before a retry."},
	{"request_timeout", "30s", "Timeout of a single catalog request."},
	{"history_path", "~/.pms/history.db", "Search and download history database. Empty disables history."},
	{"log_level", "info", "One of debug, info, warn, error."},
}

func registerDefaults(v *viper.Viper) {
	for _, setting := range defaultSettings {
		v.SetDefault(setting.key, setting.value)
	}
}

// WriteDefaultConfig writes a documented configuration file with every default value.
// If the file already exists, only the keys it lacks are appended and the rest of the
// document, including comments and key order, is kept. created reports whether a new
// file was written.
func WriteDefaultConfig(path string) (bool, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	content, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return false, fmt.Errorf("failed to read config file: %w", err)
	}

	created := os.IsNotExist(err)

	var document yaml.Node
	if !created {
		if err = yaml.Unmarshal(content, &document); err != nil {
			return false, fmt.Errorf("failed to parse YAML: %w", err)
		}
	}

	mapNode, err := rootMapping(&document)
	if err != nil {
		return false, err
	}

	added, err := appendMissingKeys(mapNode)
	if err != nil {
		return false, err
	}

	if !created && added == 0 {
		return false, nil
	}

	newContent, err := yaml.Marshal(&document)
	if err != nil {
		return false, fmt.Errorf("failed to marshal YAML: %w", err)
	}

	if err = os.WriteFile(path, newContent, constants.DefaultFilePermissions); err != nil {
		return false, fmt.Errorf("failed to write config file: %w", err)
	}

	return created, nil
}

// rootMapping returns the top-level mapping of a document, creating it for an empty document.
func rootMapping(document *yaml.Node) (*yaml.Node, error) {
	if document.Kind == 0 || len(document.Content) == 0 {
		document.Kind = yaml.DocumentNode
		document.Content = []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}}
	}

	mapNode := document.Content[0]
	if mapNode.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: top level of the config file is not a mapping", ErrInvalidConfigFile)
	}

	return mapNode, nil
}

// appendMissingKeys adds every default key absent from mapNode and returns how many were added.
func appendMissingKeys(mapNode *yaml.Node) (int, error) {
	existing := make(map[string]struct{}, len(mapNode.Content)/2)
	for i := 0; i+1 < len(mapNode.Content); i += 2 {
		existing[mapNode.Content[i].Value] = struct{}{}
	}

	added := 0

	for _, setting := range defaultSettings {
		if _, ok := existing[setting.key]; ok {
			continue
		}

		var valueNode yaml.Node
		if err := valueNode.Encode(setting.value); err != nil {
			return 0, fmt.Errorf("failed to encode default for %s: %w", setting.key, err)
		}

		if valueNode.Kind == yaml.SequenceNode {
			valueNode.Style = yaml.FlowStyle
		}

		if valueNode.Kind == yaml.ScalarNode && valueNode.Tag == "!!str" {
			valueNode.Style = yaml.DoubleQuotedStyle
		}

		keyNode := &yaml.Node{
			Kind:        yaml.ScalarNode,
			Tag:         "!!str",
			Value:       setting.key,
			HeadComment: setting.comment,
		}

		mapNode.Content = append(mapNode.Content, keyNode, &valueNode)
		added++
	}

	return added, nil
}
