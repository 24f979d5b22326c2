package pms

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestDetectAudioFormat tests format detection from content type and link.
func TestDetectAudioFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		contentType string
		link        string
		expected    AudioFormat
	}{
		{name: "mpeg content type", contentType: "audio/mpeg", link: "https://cdn/a.flac", expected: AudioFormatMP3},
		{name: "flac content type", contentType: "audio/flac", link: "https://cdn/a", expected: AudioFormatFLAC},
		{name: "x-flac content type", contentType: "Audio/X-FLAC", link: "", expected: AudioFormatFLAC},
		{name: "flac link with query", contentType: "", link: "https://cdn/a.FLAC?token=1", expected: AudioFormatFLAC},
		{name: "octet stream mp3 link", contentType: "application/octet-stream", link: "https://cdn/a.mp3", expected: AudioFormatMP3},
		{name: "nothing known", contentType: "", link: "", expected: AudioFormatMP3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, DetectAudioFormat(tt.contentType, tt.link))
		})
	}
}

// TestAudioFormat tests the String and Extension methods.
func TestAudioFormat(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "MP3", AudioFormatMP3.String())
	assert.Equal(t, "FLAC", AudioFormatFLAC.String())
	assert.Equal(t, "unknown: 9", AudioFormat(9).String())
	assert.Equal(t, ".mp3", AudioFormatMP3.Extension())
	assert.Equal(t, ".flac", AudioFormatFLAC.Extension())
	assert.Equal(t, "already exists", SkipReasonExists.String())
}
