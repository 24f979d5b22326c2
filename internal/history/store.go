package history

//go:generate $MOCKGEN -source=store.go -destination=mocks/store_mock.go

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	// Registers the "sqlite3" database/sql driver.
	_ "github.com/mattn/go-sqlite3"

	"github.com/np1/pms/internal/client/pleer"
	"github.com/np1/pms/internal/constants"
)

// Kind is the type of a history entry.
type Kind string

const (
	// KindSearch is a search request.
	KindSearch Kind = "search"
	// KindPlay is a track that was streamed.
	KindPlay Kind = "play"
	// KindDownload is a track that was saved to disk.
	KindDownload Kind = "download"
)

// DefaultRecentLimit is the number of entries listed when no limit is given.
const DefaultRecentLimit = 20

// ErrInvalidKind indicates a track entry with a kind other than play or download.
var ErrInvalidKind = errors.New("invalid history entry kind")

// Entry is one recorded action.
type Entry struct {
	// ID is a random UUID.
	ID string
	// Kind is the type of action.
	Kind Kind
	// Query is the search term, for searches.
	Query string
	// Total is the number of results, for searches.
	Total int64
	// TrackID is the catalog id, for plays and downloads.
	TrackID string
	// Artist is the track performer, for plays and downloads.
	Artist string
	// Title is the track name, for plays and downloads.
	Title string
	// Path is the saved file, for downloads.
	Path string
	// CreatedAt is the UTC time of the action.
	CreatedAt time.Time
}

// Store persists history entries.
type Store interface {
	// RecordSearch records a search and the number of results.
	RecordSearch(ctx context.Context, query string, total int64) error
	// RecordTrack records a play or a download.
	RecordTrack(ctx context.Context, kind Kind, track *pleer.Track, path string) error
	// Recent returns up to limit entries, newest first.
	Recent(ctx context.Context, limit int) ([]*Entry, error)
	// Close releases the database.
	Close() error
}

// SQLiteStore is a Store backed by a SQLite file.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewStore opens the history database at path, creating it and its schema if needed.
// An empty path returns a store that records nothing.
func NewStore(ctx context.Context, path string) (Store, error) {
	if path == "" {
		return NopStore{}, nil
	}

	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), constants.DefaultFolderPermissions); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Concurrent downloads share one connection so writes never hit a locked database.
	db.SetMaxOpenConns(1)

	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err = runMigrations(ctx, db); err != nil {
		_ = db.Close()

		return nil, err
	}

	return &SQLiteStore{db: db, now: time.Now}, nil
}

// RecordSearch records a search and the number of results.
func (s *SQLiteStore) RecordSearch(ctx context.Context, query string, total int64) error {
	return s.insert(ctx, &Entry{Kind: KindSearch, Query: query, Total: total})
}

// RecordTrack records a play or a download.
func (s *SQLiteStore) RecordTrack(ctx context.Context, kind Kind, track *pleer.Track, path string) error {
	if kind != KindPlay && kind != KindDownload {
		return fmt.Errorf("%w: %s", ErrInvalidKind, kind)
	}

	return s.insert(ctx, &Entry{
		Kind:    kind,
		TrackID: track.ID,
		Artist:  track.Artist,
		Title:   track.Title,
		Path:    path,
	})
}

// Recent returns up to limit entries, newest first. A non-positive limit uses DefaultRecentLimit.
func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]*Entry, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, kind, query, total, track_id, artist, title, path, created_at
		FROM history
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}

	defer rows.Close() //nolint:errcheck // Error on close is not critical here.

	var entries []*Entry

	for rows.Next() {
		var (
			entry Entry
			kind  string
		)

		err = rows.Scan(&entry.ID, &kind, &entry.Query, &entry.Total,
			&entry.TrackID, &entry.Artist, &entry.Title, &entry.Path, &entry.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}

		entry.Kind = Kind(kind)
		entry.CreatedAt = entry.CreatedAt.UTC()
		entries = append(entries, &entry)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}

	return entries, nil
}

// Close releases the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) insert(ctx context.Context, entry *Entry) error {
	entry.ID = uuid.NewString()
	entry.CreatedAt = s.now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO history (id, kind, query, total, track_id, artist, title, path, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, string(entry.Kind), entry.Query, entry.Total,
		entry.TrackID, entry.Artist, entry.Title, entry.Path, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record %s: %w", entry.Kind, err)
	}

	return nil
}

// NopStore is a Store that records nothing.
type NopStore struct{}

// RecordSearch does nothing.
func (NopStore) RecordSearch(context.Context, string, int64) error { return nil }

// RecordTrack does nothing.
func (NopStore) RecordTrack(context.Context, Kind, *pleer.Track, string) error { return nil }

// Recent returns no entries.
func (NopStore) Recent(context.Context, int) ([]*Entry, error) { return nil, nil }

// Close does nothing.
func (NopStore) Close() error { return nil }
