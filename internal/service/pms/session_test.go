package pms_test

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/np1/pms/internal/client/pleer"
	"github.com/np1/pms/internal/service/pms"
	mock_pms "github.com/np1/pms/internal/service/pms/mocks"
)

func testTracks() []*pleer.Track {
	return []*pleer.Track{
		{ID: "t1", Artist: "Beethoven", Title: "Symphony No. 5", Duration: 446 * time.Second, Bitrate: 320, Size: 7_340_032},
		{ID: "t2", Artist: "Mozart", Title: "Requiem", BitrateText: "VBR"},
	}
}

// TestSession_ScriptedInput drives a whole session through the mocked service.
func TestSession_ScriptedInput(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	service := mock_pms.NewMockService(ctrl)
	tracks := testTracks()

	firstPage := &pms.SearchPage{Query: "classic", Page: 1, PageSize: 2, Total: 3, Tracks: tracks, HasNext: true}
	secondPage := &pms.SearchPage{Query: "classic", Page: 2, PageSize: 2, Total: 3, Tracks: tracks[:1], HasPrev: true}

	gomock.InOrder(
		service.EXPECT().Search(gomock.Any(), "classic", 1).Return(firstPage, nil),
		service.EXPECT().Play(gomock.Any(), tracks[0]).Return(nil),
		service.EXPECT().Download(gomock.Any(), []*pleer.Track{tracks[1], tracks[0]}),
		service.EXPECT().Page(gomock.Any(), "classic", 2).Return(secondPage, nil),
		service.EXPECT().Download(gomock.Any(), []*pleer.Track{tracks[0]}),
		service.EXPECT().Page(gomock.Any(), "classic", 1).Return(firstPage, nil),
	)

	input := strings.Join([]string{
		"1", // nothing searched yet
		"classic",
		"1",
		"d 2,1",
		"n",
		"n", // already on the last page
		"d*",
		"p",
		"7", // out of range
		"h",
		"q",
		"never reached",
	}, "\n")

	var output bytes.Buffer

	err := pms.NewSession(service, strings.NewReader(input), &output).Run(context.Background(), "")
	require.NoError(t, err)

	text := output.String()
	assert.Contains(t, text, "search first")
	assert.Contains(t, text, `Results for "classic", page 1 (3 total)`)
	assert.Contains(t, text, "Beethoven")
	assert.Contains(t, text, "Symphony No. 5")
	assert.Contains(t, text, "7:26")
	assert.Contains(t, text, "320 kbps")
	assert.Contains(t, text, "7.3 MB")
	assert.Contains(t, text, "VBR")
	assert.Contains(t, text, "Playing Beethoven - Symphony No. 5")
	assert.Contains(t, text, "Downloading 2 track(s)")
	assert.Contains(t, text, "Already on the last page.")
	assert.Contains(t, text, "selection out of range")
	assert.Contains(t, text, "d <selection>")
}

// TestSession_InitialQueryAndEOF tests the initial search and ending on end of input.
func TestSession_InitialQueryAndEOF(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	service := mock_pms.NewMockService(ctrl)

	service.EXPECT().
		Search(gomock.Any(), "daft punk", 1).
		Return(&pms.SearchPage{Query: "daft punk", Page: 1, PageSize: 2, Total: 0}, nil)
	service.EXPECT().
		Search(gomock.Any(), "d", 1).
		Times(0)

	var output bytes.Buffer

	err := pms.NewSession(service, strings.NewReader("p\nd\n"), &output).Run(context.Background(), "daft punk")
	require.NoError(t, err)

	text := output.String()
	assert.Contains(t, text, "No results.")
	assert.Contains(t, text, "search first")
}

// TestSession_SearchErrorContinues tests that a failed command does not end the session.
func TestSession_SearchErrorContinues(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	service := mock_pms.NewMockService(ctrl)

	gomock.InOrder(
		service.EXPECT().Search(gomock.Any(), "first", 1).Return(nil, pleer.ErrSearchFailed),
		service.EXPECT().
			Search(gomock.Any(), "second", 1).
			Return(&pms.SearchPage{Query: "second", Page: 1, PageSize: 2, Total: 2, Tracks: testTracks()}, nil),
	)

	var output bytes.Buffer

	err := pms.NewSession(service, strings.NewReader("first\nsecond\nquit\n"), &output).
		Run(context.Background(), "")
	require.NoError(t, err)

	text := output.String()
	assert.Contains(t, text, "Error: "+pleer.ErrSearchFailed.Error())
	assert.Contains(t, text, `Results for "second"`)
}

// TestSession_Canceled tests that cancellation ends a session waiting for input.
func TestSession_Canceled(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	service := mock_pms.NewMockService(ctrl)

	reader, writer := io.Pipe()
	t.Cleanup(func() { _ = writer.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() {
		done <- pms.NewSession(service, reader, io.Discard).Run(ctx, "")
	}()

	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("session did not stop after cancellation")
	}
}
