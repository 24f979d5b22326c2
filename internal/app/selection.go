package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/np1/pms/internal/client/pleer"
	"github.com/np1/pms/internal/service/pms"
)

// Static error definitions for better error handling.
var (
	// ErrNothingFound indicates that a search returned an empty page.
	ErrNothingFound = errors.New("nothing found")
	// ErrNothingToDownload indicates that neither a query nor track ids were given.
	ErrNothingToDownload = errors.New("nothing to download: pass a search term, --id or --from-file")
)

// searchAndSelect runs one search and returns the rows picked by selection.
func searchAndSelect(
	ctx context.Context,
	service pms.Service,
	query string,
	page int,
	selection string,
) ([]*pleer.Track, error) {
	searchPage, err := service.Search(ctx, query, page)
	if err != nil {
		return nil, err
	}

	if len(searchPage.Tracks) == 0 {
		return nil, fmt.Errorf("%w for '%s' on page %d", ErrNothingFound, searchPage.Query, searchPage.Page)
	}

	numbers, err := pms.ParseSelection(selection, len(searchPage.Tracks))
	if err != nil {
		return nil, err
	}

	tracks := make([]*pleer.Track, 0, len(numbers))
	for _, number := range numbers {
		tracks = append(tracks, searchPage.Tracks[number-1])
	}

	return tracks, nil
}

// tracksFromIDs builds bare tracks for ids given on the command line.
// Blank and repeated ids are skipped.
func tracksFromIDs(ids []string) []*pleer.Track {
	var (
		seen   = make(map[string]struct{}, len(ids))
		tracks = make([]*pleer.Track, 0, len(ids))
	)

	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}

		if _, exists := seen[id]; exists {
			continue
		}

		seen[id] = struct{}{}

		tracks = append(tracks, &pleer.Track{ID: id, Position: int64(len(tracks) + 1)})
	}

	return tracks
}
