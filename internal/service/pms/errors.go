package pms

import (
	"context"
	"errors"
)

// Common errors for the service layer.
var (
	// ErrIncompleteDownload indicates that the downloaded file size doesn't match expected size.
	ErrIncompleteDownload = errors.New("incomplete download")
	// ErrNilTrack indicates that a track was expected but nil was given.
	ErrNilTrack = errors.New("track cannot be nil")
	// ErrEmptySelection indicates that no result numbers were given.
	ErrEmptySelection = errors.New("empty selection")
	// ErrInvalidSelection indicates that a selection could not be parsed.
	ErrInvalidSelection = errors.New("invalid selection")
	// ErrSelectionOutOfRange indicates that a selected number is not on the current page.
	ErrSelectionOutOfRange = errors.New("selection out of range")
	// ErrNoResults indicates that a command needs search results but there are none.
	ErrNoResults = errors.New("no results, search first")
)

// ErrorContext provides context information for download errors.
type ErrorContext struct {
	// ItemID is the catalog identifier of the track that failed.
	ItemID string
	// ItemTitle is the human-readable title of the track.
	ItemTitle string
	// Phase indicates when the error occurred (e.g., "resolving link", "downloading file").
	Phase string
}

// recordError records an error in the statistics with proper context.
// Context cancellation errors are ignored as they are expected during graceful shutdown.
func (s *ServiceImpl) recordError(errCtx *ErrorContext, err error) {
	if errCtx == nil || err == nil {
		return
	}

	if errors.Is(err, context.Canceled) {
		return
	}

	s.statsMutex.Lock()
	defer s.statsMutex.Unlock()

	s.stats.Errors = append(s.stats.Errors, DownloadError{
		ItemID:       errCtx.ItemID,
		ItemTitle:    errCtx.ItemTitle,
		ErrorMessage: err.Error(),
		Phase:        errCtx.Phase,
	})
}
