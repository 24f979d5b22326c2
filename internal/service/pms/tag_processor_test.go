package pms

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/oshokin/id3v2/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/np1/pms/internal/constants"
)

// writeTestAudio creates a file with placeholder audio data.
func writeTestAudio(t *testing.T, name string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("not really audio, but long enough"), constants.DefaultFilePermissions))

	return path
}

// TestTagProcessor_WriteMP3Tags tests that ID3 frames are written and readable.
func TestTagProcessor_WriteMP3Tags(t *testing.T) {
	t.Parallel()

	path := writeTestAudio(t, "track.mp3.part")
	cover := []byte("\xff\xd8\xff\xe0 fake jpeg")

	err := NewTagProcessor().WriteTags(context.Background(), &WriteTagsRequest{
		TrackPath: path,
		Format:    AudioFormatMP3,
		TrackTags: map[string]string{
			"trackArtist":  "Beethoven",
			"trackTitle":   "Symphony No. 5",
			"trackComment": "https://catalog.test t1",
		},
		Cover: cover,
	})
	require.NoError(t, err)

	//nolint:exhaustruct // ParseFrames left empty to parse all frames.
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	require.NoError(t, err)

	defer tag.Close()

	assert.Equal(t, "Beethoven", tag.Artist())
	assert.Equal(t, "Symphony No. 5", tag.Title())
	assert.Len(t, tag.GetFrames(tag.CommonID("Attached picture")), 1)
	assert.Len(t, tag.GetFrames(tag.CommonID("Comments")), 1)
}

// TestTagProcessor_Errors tests invalid requests.
func TestTagProcessor_Errors(t *testing.T) {
	t.Parallel()

	processor := NewTagProcessor()

	err := processor.WriteTags(context.Background(), &WriteTagsRequest{Format: AudioFormatMP3})
	require.ErrorIs(t, err, ErrEmptyTrackPath)

	path := writeTestAudio(t, "track.flac.part")
	err = processor.WriteTags(context.Background(), &WriteTagsRequest{
		TrackPath: path,
		Format:    AudioFormatFLAC,
		TrackTags: map[string]string{"trackTitle": "x"},
	})
	require.Error(t, err)
}
