package pms

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/np1/pms/internal/client/pleer"
	"github.com/np1/pms/internal/constants"
	"github.com/np1/pms/internal/history"
	"github.com/np1/pms/internal/logger"
	"github.com/np1/pms/internal/utils"
)

// maxCoverSize bounds the cover image read into memory.
const maxCoverSize = 10 * 1024 * 1024

// downloadTrackRequest contains parameters for downloading a single track.
type downloadTrackRequest struct {
	// trackIndex is the 1-based position of the track in the download queue.
	trackIndex int64
	// tracksCount is the size of the download queue.
	tracksCount int64
	// track is the track to download.
	track *pleer.Track
}

func (s *ServiceImpl) downloadTracks(ctx context.Context, tracks []*pleer.Track) {
	maxConcurrent := s.cfg.MaxConcurrentDownloads

	if maxConcurrent <= 1 {
		s.downloadTracksSequentially(ctx, tracks)

		return
	}

	s.downloadTracksConcurrently(ctx, tracks, maxConcurrent)
}

func (s *ServiceImpl) downloadTracksSequentially(ctx context.Context, tracks []*pleer.Track) {
	for i, track := range tracks {
		// Stop immediately on CTRL+C.
		select {
		case <-ctx.Done():
			return
		default:
		}

		s.downloadTrack(ctx, s.newDownloadTrackRequest(i, track, len(tracks)))
	}
}

// downloadTracksConcurrently downloads tracks using a worker pool.
func (s *ServiceImpl) downloadTracksConcurrently(ctx context.Context, tracks []*pleer.Track, maxConcurrent int64) {
	semaphore := make(chan struct{}, maxConcurrent)

	var waitGroup sync.WaitGroup

	for index, track := range tracks {
		// Stop queueing new downloads on CTRL+C.
		if ctx.Err() != nil {
			break
		}

		waitGroup.Add(1)

		go func(trackIndex int, currentTrack *pleer.Track) {
			defer waitGroup.Done()

			semaphore <- struct{}{}

			defer func() {
				<-semaphore
			}()

			if ctx.Err() != nil {
				return
			}

			s.downloadTrack(ctx, s.newDownloadTrackRequest(trackIndex, currentTrack, len(tracks)))
		}(index, track)
	}

	waitGroup.Wait()
}

func (s *ServiceImpl) newDownloadTrackRequest(index int, track *pleer.Track, count int) *downloadTrackRequest {
	return &downloadTrackRequest{
		trackIndex:  int64(index) + 1,
		tracksCount: int64(count),
		track:       track,
	}
}

//nolint:funlen,cyclop // Function orchestrates the download workflow with multiple sequential steps.
func (s *ServiceImpl) downloadTrack(ctx context.Context, req *downloadTrackRequest) {
	track := req.track
	if track == nil {
		s.incrementTrackFailed()
		s.recordError(&ErrorContext{ItemTitle: unknownTrackTitle, Phase: "preparing download"}, ErrNilTrack)

		return
	}

	errCtx := &ErrorContext{
		ItemID:    track.ID,
		ItemTitle: track.DisplayName(),
	}

	if errCtx.ItemTitle == "" {
		errCtx.ItemTitle = unknownTrackTitle
	}

	trackTags := s.fillTrackTagsForTemplating(req.trackIndex, track)
	baseFilename := s.trackBaseFilename(ctx, track, trackTags)

	baseFilename, trackPath := s.claimTrackPath(baseFilename, track.ID, AudioFormatMP3)
	if s.isSkipped(ctx, trackPath) {
		return
	}

	logger.Infof(ctx, "Downloading track %d of %d: %s", req.trackIndex, req.tracksCount, errCtx.ItemTitle)

	trackURL, err := s.client.GetTrackURL(ctx, track.ID, pleer.URLActionDownload)
	if err != nil {
		s.handleTrackFailure(ctx, errCtx, "resolving link", err)

		return
	}

	fetchResult, err := s.client.FetchTrack(ctx, trackURL)
	if err != nil {
		s.handleTrackFailure(ctx, errCtx, "fetching track", err)

		return
	}

	defer fetchResult.Body.Close() //nolint:errcheck // Error on close is not critical here.

	format := DetectAudioFormat(fetchResult.ContentType, trackURL)
	if format != AudioFormatMP3 {
		_, trackPath = s.claimTrackPath(baseFilename, track.ID, format)
		if s.isSkipped(ctx, trackPath) {
			return
		}
	}

	result, err := s.downloadAndSaveTrack(ctx, fetchResult, trackPath)
	if err != nil {
		s.handleTrackFailure(ctx, errCtx, "downloading file", err)

		return
	}

	result.Format = format

	if s.cfg.WriteTags {
		writeTagsRequest := &WriteTagsRequest{
			TrackPath: result.TempPath,
			Format:    format,
			TrackTags: trackTags,
			Cover:     s.fetchCover(ctx, track),
		}

		if err = s.tagProcessor.WriteTags(ctx, writeTagsRequest); err != nil {
			_ = os.Remove(result.TempPath)

			s.handleTrackFailure(ctx, errCtx, "writing metadata tags", err)

			return
		}
	}

	if err = os.Rename(result.TempPath, trackPath); err != nil {
		_ = os.Remove(result.TempPath)

		s.handleTrackFailure(ctx, errCtx, "renaming temporary file", err)

		return
	}

	s.incrementTrackDownloaded(result.BytesDownloaded)

	logger.Infof(ctx, "Track saved to %s", trackPath)

	if err = s.historyStore.RecordTrack(ctx, history.KindDownload, track, trackPath); err != nil {
		logger.Warnf(ctx, "Failed to record download in history: %v", err)
	}
}

// handleTrackFailure logs, counts and records a failed track.
func (s *ServiceImpl) handleTrackFailure(ctx context.Context, errCtx *ErrorContext, phase string, err error) {
	// Don't log context cancellation - it's expected when user presses CTRL+C.
	if !errors.Is(err, context.Canceled) {
		logger.Errorf(ctx, "Failed %s for '%s': %v", phase, errCtx.ItemTitle, err)
	}

	errCtx.Phase = phase

	s.incrementTrackFailed()
	s.recordError(errCtx, err)
}

// isSkipped reports whether trackPath already exists and must be kept.
func (s *ServiceImpl) isSkipped(ctx context.Context, trackPath string) bool {
	if s.cfg.ReplaceTracks {
		return false
	}

	exists, err := utils.IsFileExist(trackPath)
	if err != nil {
		logger.Warnf(ctx, "Failed to check '%s', downloading anyway: %v", trackPath, err)

		return false
	}

	if !exists {
		return false
	}

	logger.Infof(ctx, "Track '%s' already exists, skipping download", trackPath)
	s.incrementTrackSkipped(SkipReasonExists)

	return true
}

func (s *ServiceImpl) trackBaseFilename(ctx context.Context, track *pleer.Track, trackTags map[string]string) string {
	filename := utils.SanitizeFilename(s.templateManager.GetTrackFilename(ctx, trackTags))
	if isBlankFilename(filename) {
		filename = utils.SanitizeFilename(track.DisplayName())
	}

	if isBlankFilename(filename) {
		filename = utils.SanitizeFilename(track.ID)
	}

	return filename
}

// isBlankFilename reports whether a rendered name holds nothing but separators,
// as the default template does for a track without artist and title.
func isBlankFilename(filename string) bool {
	return strings.Trim(filename, " -_.") == ""
}

func (s *ServiceImpl) trackPath(baseFilename string, format AudioFormat) string {
	return filepath.Join(s.cfg.OutputPath, utils.SetFileExtension(baseFilename, format.Extension(), false))
}

func (s *ServiceImpl) fillTrackTagsForTemplating(trackNumber int64, track *pleer.Track) map[string]string {
	return map[string]string{
		"trackArtist":    track.Artist,
		"trackTitle":     track.Title,
		"trackID":        track.ID,
		"trackNumber":    strconv.FormatInt(trackNumber, 10),
		"trackNumberPad": fmt.Sprintf("%0*d", trackNumberPaddingWidth, trackNumber),
		"bitrate":        track.BitrateText,
		"duration":       utils.FormatDuration(track.Duration),
		"trackComment":   s.client.GetBaseURL() + " " + track.ID,
	}
}

// fetchCover downloads the cover image of track. Failures only disable embedding.
func (s *ServiceImpl) fetchCover(ctx context.Context, track *pleer.Track) []byte {
	if strings.TrimSpace(track.CoverURL) == "" {
		return nil
	}

	reader, err := s.client.DownloadFromURL(ctx, track.CoverURL)
	if err != nil {
		logger.Warnf(ctx, "Failed to download cover for '%s': %v", track.DisplayName(), err)

		return nil
	}

	defer reader.Close() //nolint:errcheck // Error on close is not critical here.

	var buffer bytes.Buffer
	if _, err = io.Copy(&buffer, io.LimitReader(reader, maxCoverSize)); err != nil {
		logger.Warnf(ctx, "Failed to read cover for '%s': %v", track.DisplayName(), err)

		return nil
	}

	return buffer.Bytes()
}

//nolint:funlen // Function keeps the part-file lifecycle in one place.
func (s *ServiceImpl) downloadAndSaveTrack(
	ctx context.Context,
	fetchResult *pleer.FetchTrackResult,
	trackPath string,
) (*DownloadTrackResult, error) {
	f, err := os.CreateTemp(filepath.Dir(trackPath), partFilePattern(trackPath))
	if err != nil {
		return nil, fmt.Errorf("failed to create temporary file: %w", err)
	}

	tempFilePath := f.Name()

	var downloadSucceeded bool

	defer func() {
		closeErr := f.Close()

		if !downloadSucceeded {
			if removeErr := os.Remove(tempFilePath); removeErr != nil && !os.IsNotExist(removeErr) {
				logger.Warnf(ctx, "Failed to clean up temporary file '%s': %v (close error: %v)",
					tempFilePath, removeErr, closeErr)
			}
		}
	}()

	// CreateTemp makes the file private to the owner.
	if err = f.Chmod(constants.DefaultFilePermissions); err != nil {
		return nil, fmt.Errorf("failed to set file permissions: %w", err)
	}

	// Progress bars are disabled when downloading concurrently to avoid terminal output conflicts.
	var writer io.Writer = f

	if logger.Level() <= zap.InfoLevel && s.cfg.MaxConcurrentDownloads <= 1 {
		bar := progressbar.DefaultBytes(fetchResult.TotalBytes, "Downloading")
		defer bar.Close() //nolint:errcheck // Error on close is not critical here.

		writer = io.MultiWriter(f, bar)
	}

	reader := newThrottledReader(ctx, fetchResult.Body, s.cfg.ParsedDownloadSpeedLimit)

	bytesWritten, err := io.Copy(writer, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to write file: %w", err)
	}

	// A negative length means the server did not announce one.
	if fetchResult.TotalBytes >= 0 && bytesWritten != fetchResult.TotalBytes {
		return nil, fmt.Errorf(
			"%w: wrote %d bytes, expected %d bytes",
			ErrIncompleteDownload,
			bytesWritten,
			fetchResult.TotalBytes,
		)
	}

	if err = f.Sync(); err != nil {
		return nil, fmt.Errorf("failed to flush file: %w", err)
	}

	downloadSucceeded = true

	return &DownloadTrackResult{
		IsExist:         false,
		TempPath:        tempFilePath,
		BytesDownloaded: bytesWritten,
	}, nil
}
