package pms

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/np1/pms/internal/logger"
	"github.com/np1/pms/internal/utils"
)

const summarySeparator = "═══════════════════════════════════════════════════════════════"

// formatElapsed formats a duration into a human-readable string.
func formatElapsed(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}

	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	}

	if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}

	return fmt.Sprintf("%ds", seconds)
}

func (s *ServiceImpl) incrementTrackDownloaded(bytes int64) {
	s.statsMutex.Lock()
	defer s.statsMutex.Unlock()

	s.stats.TracksDownloaded++
	s.stats.TotalTracksProcessed++
	s.stats.TotalBytesDownloaded += bytes
}

func (s *ServiceImpl) incrementTrackSkipped(reason SkipReason) {
	s.statsMutex.Lock()
	defer s.statsMutex.Unlock()

	s.stats.TracksSkipped++
	s.stats.TotalTracksProcessed++

	if reason == SkipReasonExists {
		s.stats.TracksSkippedExists++
	}
}

func (s *ServiceImpl) incrementTrackFailed() {
	s.statsMutex.Lock()
	defer s.statsMutex.Unlock()

	s.stats.TracksFailed++
	s.stats.TotalTracksProcessed++
}

// Statistics returns a copy of the session statistics.
func (s *ServiceImpl) Statistics() DownloadStatistics {
	s.statsMutex.Lock()
	defer s.statsMutex.Unlock()

	stats := *s.stats
	stats.Errors = append([]DownloadError(nil), s.stats.Errors...)

	return stats
}

// PrintSummary prints a formatted summary of the session statistics.
func (s *ServiceImpl) PrintSummary(ctx context.Context) {
	stats := s.Statistics()

	// Nothing was downloaded or played, so there is nothing to report.
	if stats.TotalTracksProcessed == 0 && stats.TracksPlayed == 0 {
		return
	}

	wasInterrupted := ctx.Err() != nil

	logger.Info(ctx, "")
	logger.Info(ctx, summarySeparator)

	if wasInterrupted {
		logger.Info(ctx, "           SESSION SUMMARY (Interrupted)")
	} else {
		logger.Info(ctx, "                     SESSION SUMMARY")
	}

	logger.Info(ctx, summarySeparator)

	s.printActivityStatistics(ctx, &stats)
	s.printTrackStatistics(ctx, &stats)
	s.printDataTransferStatistics(ctx, &stats)

	logger.Info(ctx, summarySeparator)

	s.printErrorDetails(ctx, &stats)
	s.printFinalMessage(ctx, wasInterrupted, &stats)
}

func (s *ServiceImpl) printActivityStatistics(ctx context.Context, stats *DownloadStatistics) {
	logger.Infof(ctx, "Searches:         %d", stats.SearchesPerformed)
	logger.Infof(ctx, "Played:           %d", stats.TracksPlayed)
}

func (s *ServiceImpl) printTrackStatistics(ctx context.Context, stats *DownloadStatistics) {
	if stats.TotalTracksProcessed == 0 {
		return
	}

	logger.Infof(ctx, "Tracks:           %d total processed", stats.TotalTracksProcessed)

	if stats.TracksDownloaded > 0 {
		logger.Infof(ctx, "  Downloaded:      %d", stats.TracksDownloaded)
	}

	if stats.TracksSkipped > 0 {
		logger.Infof(ctx, "  Skipped:         %d total", stats.TracksSkipped)

		if stats.TracksSkippedExists > 0 {
			logger.Infof(ctx, "    Already Exist: %d", stats.TracksSkippedExists)
		}
	}

	if stats.TracksFailed > 0 {
		logger.Infof(ctx, "  Failed:          %d", stats.TracksFailed)
	}

	successCount := stats.TracksDownloaded + stats.TracksSkipped
	successRate := float64(successCount) / float64(stats.TotalTracksProcessed) * 100
	logger.Infof(ctx, "  Success Rate:    %.1f%%", successRate)
}

func (s *ServiceImpl) printDataTransferStatistics(ctx context.Context, stats *DownloadStatistics) {
	if stats.TotalBytesDownloaded > 0 {
		logger.Info(ctx, "")
		//nolint:gosec // TotalBytesDownloaded is always positive, no overflow risk.
		logger.Infof(ctx, "Data Downloaded:  %s", humanize.Bytes(uint64(stats.TotalBytesDownloaded)))
	}

	if stats.StartTime.IsZero() || stats.EndTime.IsZero() {
		return
	}

	duration := stats.EndTime.Sub(stats.StartTime)
	if duration <= 100*time.Millisecond {
		return
	}

	logger.Infof(ctx, "Duration:         %s", formatElapsed(duration))

	if stats.TotalBytesDownloaded > 0 {
		bytesPerSecond := float64(stats.TotalBytesDownloaded) / duration.Seconds()
		logger.Infof(ctx, "Average Speed:    %s/s", humanize.Bytes(uint64(bytesPerSecond)))
	}
}

func (s *ServiceImpl) printErrorDetails(ctx context.Context, stats *DownloadStatistics) {
	if len(stats.Errors) == 0 {
		return
	}

	logger.Info(ctx, "")
	logger.Errorf(ctx, "ERRORS ENCOUNTERED: %d", len(stats.Errors))

	ids := make([]string, 0, len(stats.Errors))

	for i := range stats.Errors {
		logger.Info(ctx, "")
		logger.Errorf(ctx, "  [%d] %s", i+1, stats.Errors[i].ItemTitle)
		logger.Errorf(ctx, "      Track ID: %s", stats.Errors[i].ItemID)
		logger.Errorf(ctx, "      Phase: %s", stats.Errors[i].Phase)
		logger.Errorf(ctx, "      Error: %s", stats.Errors[i].ErrorMessage)

		if stats.Errors[i].ItemID != "" {
			ids = append(ids, stats.Errors[i].ItemID)
		}
	}

	logger.Info(ctx, "")
	logger.Info(ctx, summarySeparator)

	if len(ids) > 0 {
		logger.Info(ctx, "")
		logger.Info(ctx, "To retry only failed downloads, run:")
		logger.Info(ctx, "")
		logger.Infof(ctx, "  pms download --id %s", utils.JoinUnique(ids, ","))
	}
}

func (s *ServiceImpl) printFinalMessage(ctx context.Context, wasInterrupted bool, stats *DownloadStatistics) {
	switch {
	case wasInterrupted:
		logger.Info(ctx, "")
		logger.Warn(ctx, "Session interrupted by user (CTRL+C).")

		if stats.TracksDownloaded > 0 {
			logger.Infof(ctx, "Successfully downloaded %d track(s) before interruption.", stats.TracksDownloaded)
		}
	case len(stats.Errors) > 0:
		logger.Info(ctx, "")
		logger.Warnf(ctx, "%d error(s) occurred during download. See detailed error log above.", len(stats.Errors))
	case stats.TracksDownloaded > 0:
		logger.Info(ctx, "")
		logger.Info(ctx, "All downloads completed successfully!")
	case stats.TracksSkipped > 0:
		logger.Info(ctx, "")
		logger.Info(ctx, "All tracks already exist in the output directory.")
	}
}
