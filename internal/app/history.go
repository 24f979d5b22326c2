package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"github.com/np1/pms/internal/config"
	"github.com/np1/pms/internal/history"
	"github.com/np1/pms/internal/logger"
)

// emptyHistoryMessage is printed when nothing has been recorded yet.
const emptyHistoryMessage = "History is empty."

// ExecuteHistoryCommand prints the most recent history entries, newest first.
func ExecuteHistoryCommand(ctx context.Context, cfg *config.Config, limit int, out io.Writer) {
	if cfg.HistoryPath == "" {
		logger.Warn(ctx, "History is disabled: history_path is empty")

		return
	}

	store, err := history.NewStore(ctx, cfg.HistoryPath)
	if err != nil {
		logger.Fatalf(ctx, "Failed to open history: %v", err)
	}

	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			logger.Warnf(ctx, "Failed to close history: %v", closeErr)
		}
	}()

	entries, err := store.Recent(ctx, limit)
	if err != nil {
		logger.Errorf(ctx, "Failed to read history: %v", err)

		return
	}

	writeHistory(out, entries, time.Now())
}

// writeHistory renders entries as a table with times relative to now.
func writeHistory(out io.Writer, entries []*history.Entry, now time.Time) {
	if len(entries) == 0 {
		fmt.Fprintln(out, emptyHistoryMessage) //nolint:errcheck // Console output.

		return
	}

	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, []string{
			humanize.RelTime(entry.CreatedAt, now, "ago", "from now"),
			string(entry.Kind),
			describeEntry(entry),
		})
	}

	historyTable := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("When", "Action", "Details").
		Rows(rows...)

	fmt.Fprintln(out, historyTable.Render()) //nolint:errcheck // Console output.
}

func describeEntry(entry *history.Entry) string {
	if entry.Kind == history.KindSearch {
		return fmt.Sprintf("%q, %d result(s)", entry.Query, entry.Total)
	}

	name := entry.TrackID

	switch {
	case entry.Artist != "" && entry.Title != "":
		name = entry.Artist + " - " + entry.Title
	case entry.Title != "":
		name = entry.Title
	}

	if entry.Path != "" {
		return name + " -> " + entry.Path
	}

	return name
}
