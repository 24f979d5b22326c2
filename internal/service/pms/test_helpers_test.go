package pms

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/np1/pms/internal/client/pleer"
	mock_pleer "github.com/np1/pms/internal/client/pleer/mocks"
	"github.com/np1/pms/internal/config"
	mock_history "github.com/np1/pms/internal/history/mocks"
	mock_player "github.com/np1/pms/internal/player/mocks"
)

// testBaseURL is the catalog address reported by the mocked client.
const testBaseURL = "https://catalog.test"

// fakeTagProcessor records tag requests and returns a preset error.
type fakeTagProcessor struct {
	mu       sync.Mutex
	requests []*WriteTagsRequest
	err      error
}

func (f *fakeTagProcessor) WriteTags(_ context.Context, req *WriteTagsRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.requests = append(f.requests, req)

	return f.err
}

// testServiceSetup encapsulates common test dependencies and configuration.
type testServiceSetup struct {
	mockClient   *mock_pleer.MockClient
	mockPlayer   *mock_player.MockPlayer
	mockHistory  *mock_history.MockStore
	tagProcessor *fakeTagProcessor
	service      *ServiceImpl
	config       *config.Config
	tempDir      string
}

// newTestServiceSetup creates a service over mocks with optional config overrides.
// History calls are allowed by default; tests that check them set their own expectations first.
func newTestServiceSetup(t *testing.T, configOverrides ...func(*config.Config)) *testServiceSetup {
	t.Helper()

	ctrl := gomock.NewController(t)
	tempDir := t.TempDir()

	cfg := &config.Config{
		OutputPath:             tempDir,
		TrackFilenameTemplate:  config.DefaultTrackFilenameTemplate,
		ResultsPerPage:         2,
		MaxConcurrentDownloads: 1,
		WriteTags:              true,
	}

	for _, override := range configOverrides {
		override(cfg)
	}

	setup := &testServiceSetup{
		mockClient:   mock_pleer.NewMockClient(ctrl),
		mockPlayer:   mock_player.NewMockPlayer(ctrl),
		mockHistory:  mock_history.NewMockStore(ctrl),
		tagProcessor: new(fakeTagProcessor),
		config:       cfg,
		tempDir:      tempDir,
	}

	setup.mockClient.EXPECT().GetBaseURL().Return(testBaseURL).AnyTimes()
	setup.mockPlayer.EXPECT().Name().Return("mplayer").AnyTimes()

	service, ok := NewService(
		cfg,
		setup.mockClient,
		setup.mockPlayer,
		setup.mockHistory,
		NewTemplateManager(context.Background(), cfg),
		setup.tagProcessor,
	).(*ServiceImpl)
	if !ok {
		t.Fatal("NewService did not return *ServiceImpl")
	}

	setup.service = service

	return setup
}

// allowHistory accepts any history write.
func (s *testServiceSetup) allowHistory() {
	s.mockHistory.EXPECT().RecordSearch(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	s.mockHistory.EXPECT().RecordTrack(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
}

// expectTrackDownload sets up link resolution and fetching of content for track.
func (s *testServiceSetup) expectTrackDownload(track *pleer.Track, content string, totalBytes int64) {
	link := "https://cdn.test/" + track.ID + ".mp3"

	s.mockClient.EXPECT().
		GetTrackURL(gomock.Any(), track.ID, pleer.URLActionDownload).
		Return(link, nil)
	s.mockClient.EXPECT().
		FetchTrack(gomock.Any(), link).
		Return(&pleer.FetchTrackResult{
			Body:        io.NopCloser(strings.NewReader(content)),
			TotalBytes:  totalBytes,
			ContentType: "audio/mpeg",
		}, nil)
}

// newTestTrack builds a track with the given id.
func newTestTrack(id, artist, title string) *pleer.Track {
	return &pleer.Track{
		ID:          id,
		Artist:      artist,
		Title:       title,
		BitrateText: "320 Kb/s",
		Bitrate:     320,
	}
}
