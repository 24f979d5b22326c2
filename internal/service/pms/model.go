package pms

import (
	"fmt"
	"strings"
	"time"

	"github.com/np1/pms/internal/client/pleer"
	"github.com/np1/pms/internal/constants"
)

const (
	// trackNumberPaddingWidth is the width of the zero-padded track number tag.
	trackNumberPaddingWidth = 2
	// unknownTrackTitle is shown when a failed track has no usable name.
	unknownTrackTitle = "Unknown Track"
)

// AudioFormat is the container format of a downloaded file.
type AudioFormat uint8

const (
	// AudioFormatMP3 - MPEG layer 3, the usual catalog format.
	AudioFormatMP3 AudioFormat = iota
	// AudioFormatFLAC - lossless FLAC.
	AudioFormatFLAC
)

// String returns a human-readable representation of the AudioFormat.
func (f AudioFormat) String() string {
	switch f {
	case AudioFormatMP3:
		return "MP3"
	case AudioFormatFLAC:
		return "FLAC"
	default:
		return fmt.Sprintf("unknown: %d", f)
	}
}

// Extension returns the file extension for the format.
func (f AudioFormat) Extension() string {
	if f == AudioFormatFLAC {
		return constants.ExtensionFLAC
	}

	return constants.ExtensionMP3
}

// DetectAudioFormat picks the format from the announced content type, falling back to the link.
// Anything unrecognized is treated as MP3.
func DetectAudioFormat(contentType, link string) AudioFormat {
	contentType = strings.ToLower(contentType)
	if strings.Contains(contentType, "flac") {
		return AudioFormatFLAC
	}

	link = strings.ToLower(link)
	if i := strings.IndexAny(link, "?#"); i >= 0 {
		link = link[:i]
	}

	if strings.HasSuffix(link, constants.ExtensionFLAC) {
		return AudioFormatFLAC
	}

	return AudioFormatMP3
}

// SkipReason represents why a track was skipped.
type SkipReason uint8

const (
	// SkipReasonExists - track file already exists.
	SkipReasonExists SkipReason = iota
)

// String returns a human-readable representation of the SkipReason.
func (sr SkipReason) String() string {
	switch sr {
	case SkipReasonExists:
		return "already exists"
	default:
		return fmt.Sprintf("unknown reason: %d", sr)
	}
}

// SearchPage is one page of search results with pagination info.
type SearchPage struct {
	// Query is the trimmed search term.
	Query string
	// Page is the 1-based page number.
	Page int
	// PageSize is the configured number of rows per page.
	PageSize int
	// Total is the number of matches reported by the service.
	Total int64
	// Tracks are the results of this page.
	Tracks []*pleer.Track
	// HasNext is true when more results follow this page.
	HasNext bool
	// HasPrev is true when this is not the first page.
	HasPrev bool
}

// DownloadStatistics tracks metrics for a session.
type DownloadStatistics struct {
	// StartTime is when the first download began.
	StartTime time.Time
	// EndTime is when the last download finished.
	EndTime time.Time
	// TotalTracksProcessed is the total number of tracks attempted.
	TotalTracksProcessed int64
	// TracksDownloaded is the number of tracks successfully downloaded.
	TracksDownloaded int64
	// TracksSkipped is the total number of tracks skipped for any reason.
	TracksSkipped int64
	// TracksSkippedExists is the number of tracks skipped because they already exist.
	TracksSkippedExists int64
	// TracksFailed is the number of tracks that failed to download.
	TracksFailed int64
	// TotalBytesDownloaded is the total size of downloaded content in bytes.
	TotalBytesDownloaded int64
	// TracksPlayed is the number of tracks streamed through the player.
	TracksPlayed int64
	// SearchesPerformed is the number of searches sent to the catalog.
	SearchesPerformed int64
	// Errors is a list of all errors encountered during the session.
	Errors []DownloadError
}

// DownloadError represents a single error that occurred during download.
type DownloadError struct {
	// ItemID is the catalog identifier of the track that failed.
	ItemID string
	// ItemTitle is the human-readable title of the track.
	ItemTitle string
	// ErrorMessage is the error message.
	ErrorMessage string
	// Phase indicates when the error occurred.
	Phase string
}

// DownloadTrackResult contains the result of downloadAndSaveTrack operation.
type DownloadTrackResult struct {
	// IsExist indicates whether the track file already existed (download was skipped).
	IsExist bool
	// TempPath is the path to the temporary .part file (empty if download was skipped or failed).
	TempPath string
	// BytesDownloaded is the number of bytes successfully downloaded.
	BytesDownloaded int64
	// Format is the detected audio format.
	Format AudioFormat
}
