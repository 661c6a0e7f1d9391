// Package store reads songs from an existing SQLite songbook database.
//
// The store opens the database read-only and never creates or migrates
// tables. It expects a songs table shaped like:
//
//	CREATE TABLE songs (
//	  id              INTEGER PRIMARY KEY,
//	  title           TEXT NOT NULL,
//	  artist          TEXT NOT NULL DEFAULT '',
//	  key_signature   TEXT NOT NULL DEFAULT '',
//	  chords          TEXT NOT NULL DEFAULT '[]', -- JSON array of chord symbols
//	  lyrics          TEXT NOT NULL DEFAULT '',
//	  lyrics_sections TEXT                        -- JSON chart.Sheet, optional
//	);
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/RyanBlaney/sonido-chords/algorithms/chart"
	"github.com/RyanBlaney/sonido-chords/songbook"
)

// ErrNotFound is returned when no song has the requested ID.
var ErrNotFound = errors.New("song not found")

const (
	// DefaultLimit is the page size used when a Filter leaves Limit unset.
	DefaultLimit = 20
	// MaxLimit caps the page size.
	MaxLimit = 100
)

const songColumns = `id, title, artist, key_signature, chords, lyrics, lyrics_sections`

// Filter narrows and pages a song listing.
type Filter struct {
	// Query matches a substring of the title or the artist, ignoring ASCII case.
	Query string
	// Artist matches a substring of the artist only.
	Artist string
	Limit  int
	Offset int
}

// Page is one page of a song listing.
type Page struct {
	Songs  []songbook.Song
	Total  int
	Limit  int
	Offset int
}

// HasMore reports whether songs remain after this page.
func (p Page) HasMore() bool {
	return p.Offset+len(p.Songs) < p.Total
}

// Store reads songs from SQLite.
type Store struct {
	sqlDB *sql.DB
}

// Open opens the songbook database at path in read-only mode.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := "file:" + filepath.ToSlash(filepath.Clean(path)) + "?mode=ro&_pragma=busy_timeout(5000)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Get returns one song by ID.
func (s *Store) Get(ctx context.Context, id int64) (songbook.Song, error) {
	if err := ctx.Err(); err != nil {
		return songbook.Song{}, err
	}
	if s == nil || s.sqlDB == nil {
		return songbook.Song{}, fmt.Errorf("storage is not configured")
	}

	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT `+songColumns+`
		   FROM songs
		  WHERE id = ?`,
		id,
	)
	song, err := scanSong(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return songbook.Song{}, fmt.Errorf("song %d: %w", id, ErrNotFound)
		}
		return songbook.Song{}, fmt.Errorf("get song %d: %w", id, err)
	}
	return song, nil
}

// List returns one page of songs ordered by title.
func (s *Store) List(ctx context.Context, filter Filter) (Page, error) {
	if err := ctx.Err(); err != nil {
		return Page{}, err
	}
	if s == nil || s.sqlDB == nil {
		return Page{}, fmt.Errorf("storage is not configured")
	}
	if filter.Offset < 0 {
		return Page{}, fmt.Errorf("offset must not be negative")
	}
	limit := filter.Limit
	switch {
	case limit <= 0:
		limit = DefaultLimit
	case limit > MaxLimit:
		limit = MaxLimit
	}

	where, args := filter.where()

	var total int
	if err := s.sqlDB.QueryRowContext(ctx, `SELECT COUNT(*) FROM songs`+where, args...).Scan(&total); err != nil {
		return Page{}, fmt.Errorf("count songs: %w", err)
	}

	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT `+songColumns+`
		   FROM songs`+where+`
		  ORDER BY title COLLATE NOCASE ASC, id ASC
		  LIMIT ? OFFSET ?`,
		append(args, limit, filter.Offset)...,
	)
	if err != nil {
		return Page{}, fmt.Errorf("list songs: %w", err)
	}
	defer rows.Close()

	page := Page{
		Songs:  make([]songbook.Song, 0, limit),
		Total:  total,
		Limit:  limit,
		Offset: filter.Offset,
	}
	for rows.Next() {
		song, err := scanSong(rows)
		if err != nil {
			return Page{}, fmt.Errorf("list songs: %w", err)
		}
		page.Songs = append(page.Songs, song)
	}
	if err := rows.Err(); err != nil {
		return Page{}, fmt.Errorf("list songs: %w", err)
	}
	return page, nil
}

func (f Filter) where() (string, []any) {
	var (
		clauses []string
		args    []any
	)
	if q := strings.TrimSpace(f.Query); q != "" {
		pattern := likePattern(q)
		clauses = append(clauses, `(title LIKE ? ESCAPE '\' OR artist LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern)
	}
	if a := strings.TrimSpace(f.Artist); a != "" {
		clauses = append(clauses, `artist LIKE ? ESCAPE '\'`)
		args = append(args, likePattern(a))
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSong(row rowScanner) (songbook.Song, error) {
	var (
		song     songbook.Song
		chords   sql.NullString
		sections sql.NullString
	)
	if err := row.Scan(
		&song.ID,
		&song.Title,
		&song.Artist,
		&song.KeySignature,
		&chords,
		&song.Lyrics,
		&sections,
	); err != nil {
		return songbook.Song{}, err
	}

	if chords.Valid && strings.TrimSpace(chords.String) != "" {
		if err := json.Unmarshal([]byte(chords.String), &song.Chords); err != nil {
			return songbook.Song{}, fmt.Errorf("decode chords of song %d: %w", song.ID, err)
		}
	}
	if sections.Valid && strings.TrimSpace(sections.String) != "" {
		var sheet chart.Sheet
		if err := json.Unmarshal([]byte(sections.String), &sheet); err != nil {
			return songbook.Song{}, fmt.Errorf("decode lyrics sections of song %d: %w", song.ID, err)
		}
		if len(sheet.Lines) > 0 {
			song.Sections = &sheet
		}
	}
	return song, nil
}
