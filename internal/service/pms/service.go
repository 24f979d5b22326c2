package pms

//go:generate $MOCKGEN -source=service.go -destination=mocks/service_mock.go

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/np1/pms/internal/client/pleer"
	"github.com/np1/pms/internal/config"
	"github.com/np1/pms/internal/constants"
	"github.com/np1/pms/internal/history"
	"github.com/np1/pms/internal/logger"
	"github.com/np1/pms/internal/player"
)

// Service searches the catalog, streams tracks through the player and downloads them.
type Service interface {
	// Search runs a new search and returns one page of results for query. Pages start at 1.
	Search(ctx context.Context, query string, page int) (*SearchPage, error)
	// Page returns another page of a query that was already searched.
	Page(ctx context.Context, query string, page int) (*SearchPage, error)
	// Play resolves a streaming link for track and blocks while the player runs.
	Play(ctx context.Context, track *pleer.Track) error
	// Download saves tracks to the output directory. Failures are recorded, not returned.
	Download(ctx context.Context, tracks []*pleer.Track)
	// PrintSummary prints a formatted summary of the session statistics.
	PrintSummary(ctx context.Context)
}

// ServiceImpl implements Service.
type ServiceImpl struct {
	// cfg contains the application configuration.
	cfg *config.Config
	// client is the catalog client.
	client pleer.Client
	// player streams tracks.
	player player.Player
	// historyStore keeps searches, plays and downloads.
	historyStore history.Store
	// templateManager generates filenames.
	templateManager TemplateManager
	// tagProcessor writes metadata tags to audio files.
	tagProcessor TagProcessor
	// stats tracks statistics for the current session.
	stats *DownloadStatistics
	// statsMutex protects concurrent access to statistics.
	statsMutex *sync.Mutex
	// claimedPaths are the final paths taken by tracks of the current batch.
	claimedPaths map[string]struct{}
	// claimedPathsMutex protects claimedPaths.
	claimedPathsMutex *sync.Mutex
}

// NewService creates a service instance with dependency-injected components.
func NewService(
	cfg *config.Config,
	client pleer.Client,
	trackPlayer player.Player,
	historyStore history.Store,
	templateManager TemplateManager,
	tagProcessor TagProcessor,
) Service {
	if historyStore == nil {
		historyStore = history.NopStore{}
	}

	return &ServiceImpl{
		cfg:             cfg,
		client:          client,
		player:          trackPlayer,
		historyStore:    historyStore,
		templateManager: templateManager,
		tagProcessor:    tagProcessor,
		stats:           new(DownloadStatistics),
		statsMutex:      new(sync.Mutex),

		claimedPaths:      make(map[string]struct{}),
		claimedPathsMutex: new(sync.Mutex),
	}
}

// Search runs a new search. It is counted and recorded in history.
func (s *ServiceImpl) Search(ctx context.Context, query string, page int) (*SearchPage, error) {
	searchPage, err := s.fetchPage(ctx, query, page)
	if err != nil {
		return nil, err
	}

	s.statsMutex.Lock()
	s.stats.SearchesPerformed++
	s.statsMutex.Unlock()

	if err = s.historyStore.RecordSearch(ctx, searchPage.Query, searchPage.Total); err != nil {
		logger.Warnf(ctx, "Failed to record search in history: %v", err)
	}

	return searchPage, nil
}

// Page returns another page of query without recording it.
func (s *ServiceImpl) Page(ctx context.Context, query string, page int) (*SearchPage, error) {
	return s.fetchPage(ctx, query, page)
}

func (s *ServiceImpl) fetchPage(ctx context.Context, query string, page int) (*SearchPage, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, pleer.ErrEmptyQuery
	}

	page = max(page, 1)

	result, err := s.client.Search(ctx, query, page)
	if err != nil {
		return nil, err
	}

	pageSize := int(s.cfg.ResultsPerPage)
	if pageSize <= 0 {
		pageSize = max(len(result.Tracks), 1)
	}

	return &SearchPage{
		Query:    query,
		Page:     page,
		PageSize: pageSize,
		Total:    result.Total,
		Tracks:   result.Tracks,
		HasNext:  int64(page)*int64(pageSize) < result.Total,
		HasPrev:  page > 1,
	}, nil
}

// Play resolves a streaming link for track and blocks while the player runs.
func (s *ServiceImpl) Play(ctx context.Context, track *pleer.Track) error {
	if track == nil {
		return ErrNilTrack
	}

	streamURL, err := s.client.GetTrackURL(ctx, track.ID, pleer.URLActionPlay)
	if err != nil {
		return fmt.Errorf("failed to resolve stream for '%s': %w", track.DisplayName(), err)
	}

	if err = s.historyStore.RecordTrack(ctx, history.KindPlay, track, ""); err != nil {
		logger.Warnf(ctx, "Failed to record play in history: %v", err)
	}

	s.statsMutex.Lock()
	s.stats.TracksPlayed++
	s.statsMutex.Unlock()

	logger.Infof(ctx, "Playing %s with %s", track.DisplayName(), s.player.Name())

	err = s.player.Play(ctx, streamURL, track.DisplayName())
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("failed to play '%s': %w", track.DisplayName(), err)
	}

	return err
}

// Download saves tracks to the output directory.
func (s *ServiceImpl) Download(ctx context.Context, tracks []*pleer.Track) {
	if len(tracks) == 0 {
		return
	}

	s.statsMutex.Lock()
	if s.stats.StartTime.IsZero() {
		s.stats.StartTime = time.Now()
	}
	s.statsMutex.Unlock()

	if err := os.MkdirAll(s.cfg.OutputPath, constants.DefaultFolderPermissions); err != nil {
		logger.Errorf(ctx, "Failed to create output path: %v", err)

		return
	}

	logger.Infof(ctx, "Downloading %d track(s) to %s", len(tracks), s.cfg.OutputPath)

	s.resetClaimedPaths()
	s.downloadTracks(ctx, tracks)

	s.statsMutex.Lock()
	s.stats.EndTime = time.Now()
	s.statsMutex.Unlock()
}
