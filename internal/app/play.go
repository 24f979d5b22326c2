package app

import (
	"context"
	"errors"

	"github.com/np1/pms/internal/config"
	"github.com/np1/pms/internal/logger"
	"github.com/np1/pms/internal/player"
)

// DefaultPlaySelection plays the first result.
const DefaultPlaySelection = "1"

// PlayRequest describes the tracks streamed by ExecutePlayCommand.
type PlayRequest struct {
	// Query is the search term.
	Query string
	// Page is the 1-based result page to pick from.
	Page int
	// Selection picks rows of the page. Tracks are played in the given order.
	Selection string
}

// ExecutePlayCommand searches once and streams the selected results one after another.
func ExecutePlayCommand(ctx context.Context, cfg *config.Config, req *PlayRequest) {
	if err := player.NewChecker(cfg.PlayerCommand).CheckAll(); err != nil {
		logger.Fatalf(ctx, "Cannot stream: %v", err)
	}

	c := newComponents(ctx, cfg)
	defer c.finish(ctx)

	selection := req.Selection
	if selection == "" {
		selection = DefaultPlaySelection
	}

	tracks, err := searchAndSelect(ctx, c.service, req.Query, req.Page, selection)
	if err != nil {
		logger.Errorf(ctx, "Failed to pick tracks: %v", err)

		return
	}

	for _, track := range tracks {
		logger.Infof(ctx, "Playing %s", track.DisplayName())

		if err = c.service.Play(ctx, track); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}

			logger.Errorf(ctx, "%v", err)
		}
	}
}
