package app

import (
	"context"
	"fmt"

	"github.com/np1/pms/internal/client/pleer"
	"github.com/np1/pms/internal/config"
	"github.com/np1/pms/internal/logger"
	"github.com/np1/pms/internal/service/pms"
	"github.com/np1/pms/internal/utils"
)

// DefaultDownloadSelection picks every row of the page.
const DefaultDownloadSelection = "all"

// DownloadRequest describes the tracks fetched by ExecuteDownloadCommand.
// Track ids take precedence over a search.
type DownloadRequest struct {
	// Query is the search term.
	Query string
	// Page is the 1-based result page to pick from.
	Page int
	// Selection picks rows of the page, for example "1,3-5".
	Selection string
	// TrackIDs are catalog ids downloaded without a search.
	TrackIDs []string
	// IDsFile is a text file with one track id per line.
	IDsFile string
}

// ExecuteDownloadCommand downloads tracks without the interactive session.
func ExecuteDownloadCommand(ctx context.Context, cfg *config.Config, req *DownloadRequest) {
	c := newComponents(ctx, cfg)
	defer c.finish(ctx)

	tracks, err := resolveDownloadTracks(ctx, c.service, req)
	if err != nil {
		logger.Errorf(ctx, "Failed to prepare download: %v", err)

		return
	}

	logger.Infof(ctx, "Downloading %d track(s) to %s", len(tracks), cfg.OutputPath)

	c.service.Download(ctx, tracks)
}

func resolveDownloadTracks(ctx context.Context, service pms.Service, req *DownloadRequest) ([]*pleer.Track, error) {
	ids := req.TrackIDs

	if req.IDsFile != "" {
		lines, err := utils.ReadUniqueLinesFromFile(req.IDsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read track ids: %w", err)
		}

		ids = append(append([]string(nil), ids...), lines...)
	}

	if tracks := tracksFromIDs(ids); len(tracks) > 0 {
		return tracks, nil
	}

	if req.Query == "" {
		return nil, ErrNothingToDownload
	}

	selection := req.Selection
	if selection == "" {
		selection = DefaultDownloadSelection
	}

	return searchAndSelect(ctx, service, req.Query, req.Page, selection)
}
