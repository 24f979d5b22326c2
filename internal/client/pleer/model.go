package pleer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/np1/pms/internal/utils"
)

// URLAction selects which kind of link the service resolves for a track.
type URLAction string

const (
	// URLActionPlay resolves a link suitable for streaming.
	URLActionPlay URLAction = "play"
	// URLActionDownload resolves a link suitable for saving the file.
	URLActionDownload URLAction = "download"
)

// Track is one search result.
type Track struct {
	// ID is the catalog identifier used to resolve links.
	ID string
	// Artist is the performer name.
	Artist string
	// Title is the track name.
	Title string
	// Duration is the track length.
	Duration time.Duration
	// Bitrate is the bitrate in kbps, 0 when unknown or variable.
	Bitrate int64
	// BitrateText is the bitrate as reported by the service, e.g. "320 Kb/s".
	BitrateText string
	// Size is the file size in bytes, 0 when unknown.
	Size int64
	// CoverURL is an optional cover image.
	CoverURL string
	// Position is the 1-based position of the track in the whole result list.
	Position int64
}

// DisplayName returns "Artist - Title", or whichever part is known.
func (t *Track) DisplayName() string {
	switch {
	case t.Artist != "" && t.Title != "":
		return t.Artist + " - " + t.Title
	case t.Title != "":
		return t.Title
	default:
		return t.Artist
	}
}

// SearchResult is one page of search results.
type SearchResult struct {
	// Query is the search term as sent to the service.
	Query string
	// Page is the 1-based page number.
	Page int
	// Total is the number of matches reported by the service.
	Total int64
	// Tracks are the results of this page.
	Tracks []*Track
}

// FetchTrackResult is an open audio stream.
type FetchTrackResult struct {
	// Body is the audio data. The caller closes it.
	Body io.ReadCloser
	// TotalBytes is the announced length, -1 when unknown.
	TotalBytes int64
	// ContentType is the announced media type.
	ContentType string
}

// FlexibleInt64 decodes a JSON number, a numeric string or an empty value.
// The service is inconsistent about quoting numbers.
type FlexibleInt64 int64

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexibleInt64) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = 0

		return nil
	}

	text := string(data)
	if data[0] == '"' {
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
	}

	text = strings.TrimSpace(text)
	if text == "" {
		*f = 0

		return nil
	}

	if value, err := strconv.ParseInt(text, 10, 64); err == nil {
		*f = FlexibleInt64(value)

		return nil
	}

	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidFlexibleValue, text)
	}

	*f = FlexibleInt64(value)

	return nil
}

// FlexibleString decodes a JSON string or number as a string.
type FlexibleString string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexibleString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*f = ""
	case data[0] == '"':
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}

		*f = FlexibleString(text)
	default:
		var number json.Number
		if err := json.Unmarshal(data, &number); err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidFlexibleValue, string(data))
		}

		*f = FlexibleString(number.String())
	}

	return nil
}

// searchResponse is the body of the search endpoint.
type searchResponse struct {
	Success bool          `json:"success"`
	Count   FlexibleInt64 `json:"count"`
	Tracks  []*rawTrack   `json:"tracks"`
}

// rawTrack is a search result as the service encodes it.
type rawTrack struct {
	ID      FlexibleString `json:"id"`
	Artist  string         `json:"artist"`
	Track   string         `json:"track"`
	Length  FlexibleInt64  `json:"lenght"`
	Bitrate string         `json:"bitrate"`
	Size    FlexibleInt64  `json:"size"`
	Cover   string         `json:"cover"`
}

// trackURLResponse is the body of the link resolution endpoint.
type trackURLResponse struct {
	Success   bool   `json:"success"`
	TrackLink string `json:"track_link"`
}

//nolint:gochecknoglobals // Pre-compiled pattern used as a constant.
var bitratePattern = regexp.MustCompile(`^\s*(?P<kbps>\d+)`)

// parseBitrate extracts kbps from texts like "320 Kb/s". "VBR" and unknown values give 0.
func parseBitrate(text string) int64 {
	value := utils.ExtractNamedGroup(bitratePattern, "kbps", text)
	if value == "" {
		return 0
	}

	kbps, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0
	}

	return kbps
}

func (r *rawTrack) toTrack(position int64) *Track {
	return &Track{
		ID:          strings.TrimSpace(string(r.ID)),
		Artist:      strings.TrimSpace(html.UnescapeString(r.Artist)),
		Title:       strings.TrimSpace(html.UnescapeString(r.Track)),
		Duration:    time.Duration(r.Length) * time.Second,
		Bitrate:     parseBitrate(r.Bitrate),
		BitrateText: strings.TrimSpace(r.Bitrate),
		Size:        int64(r.Size),
		CoverURL:    strings.TrimSpace(r.Cover),
		Position:    position,
	}
}
