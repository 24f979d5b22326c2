package app

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/np1/pms/internal/client/pleer"
	"github.com/np1/pms/internal/config"
	"github.com/np1/pms/internal/history"
	"github.com/np1/pms/internal/logger"
	"github.com/np1/pms/internal/player"
	"github.com/np1/pms/internal/service/pms"
)

// components are the long-lived objects shared by the search, play and download commands.
type components struct {
	service      pms.Service
	historyStore history.Store
}

// newComponents builds the service stack. A history database that cannot be opened
// only disables history.
func newComponents(ctx context.Context, cfg *config.Config) *components {
	pleerClient, err := pleer.NewClient(cfg)
	if err != nil {
		logger.Fatalf(ctx, "Failed to initialize catalog client: %v", err)
	}

	historyStore, err := history.NewStore(ctx, cfg.HistoryPath)
	if err != nil {
		logger.Warnf(ctx, "History is disabled: %v", err)

		historyStore = history.NopStore{}
	}

	trackPlayer := player.NewExternalPlayer(cfg.PlayerCommand, cfg.PlayerArgs)
	templateManager := pms.NewTemplateManager(ctx, cfg)
	tagProcessor := pms.NewTagProcessor()

	return &components{
		service:      pms.NewService(cfg, pleerClient, trackPlayer, historyStore, templateManager, tagProcessor),
		historyStore: historyStore,
	}
}

// finish prints the session summary and releases the history store.
// It must be deferred directly so that it can recover a panic.
func (c *components) finish(ctx context.Context) {
	if r := recover(); r != nil {
		logger.Errorf(ctx, "Panic recovered: %v", r)
	}

	c.service.PrintSummary(ctx)

	if err := c.historyStore.Close(); err != nil {
		logger.Warnf(ctx, "Failed to close history: %v", err)
	}
}

// ExecuteRootCommand is the entry point for the interactive session.
// The positional arguments, if any, form the first search term.
func ExecuteRootCommand(ctx context.Context, cfg *config.Config, args []string) {
	if err := player.NewChecker(cfg.PlayerCommand).CheckAll(); err != nil {
		logger.Warnf(ctx, "Streaming is unavailable, downloads still work: %v", err)
	}

	c := newComponents(ctx, cfg)
	defer c.finish(ctx)

	session := pms.NewSession(c.service, os.Stdin, os.Stdout)

	err := session.Run(ctx, strings.TrimSpace(strings.Join(args, " ")))
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Errorf(ctx, "Session stopped: %v", err)
	}
}
