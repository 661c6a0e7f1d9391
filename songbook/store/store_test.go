package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/sonido-chords/logging"
	"github.com/RyanBlaney/sonido-chords/songbook"
)

const schema = `CREATE TABLE songs (
  id              INTEGER PRIMARY KEY,
  title           TEXT NOT NULL,
  artist          TEXT NOT NULL DEFAULT '',
  key_signature   TEXT NOT NULL DEFAULT '',
  chords          TEXT,
  lyrics          TEXT NOT NULL DEFAULT '',
  lyrics_sections TEXT
)`

type row struct {
	id                                 int64
	title, artist, key, chords, lyrics string
	sections                           any
}

var fixtures = []row{
	{1, "Amazing Grace", "John Newton", "G", `["G","C","D"]`, "[G]Amazing [C]grace how [G]sweet the [D]sound", nil},
	{2, "How Great Thou Art", "Carl Boberg", "Bb", `["Bb","Eb","F"]`, "", `{"lines":[{"segments":[{"chord":"Bb","text":"O Lord my "},{"chord":"Eb","text":"God"}]}]}`},
	{3, "Blessed Assurance", "Fanny Crosby", "D", `[]`, "", ""},
	{4, "100% Love", "Test_Artist", "", "", "", nil},
}

func seed(t *testing.T, rows []row) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "songs.db")

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(schema)
	require.NoError(t, err)
	for _, r := range rows {
		_, err := db.Exec(
			`INSERT INTO songs (id, title, artist, key_signature, chords, lyrics, lyrics_sections)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			r.id, r.title, r.artist, r.key, r.chords, r.lyrics, r.sections,
		)
		require.NoError(t, err)
	}
	return path
}

func openSeeded(t *testing.T) *Store {
	t.Helper()
	store, err := Open(seed(t, fixtures))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func titles(songs []songbook.Song) []string {
	out := make([]string, len(songs))
	for i, s := range songs {
		out[i] = s.Title
	}
	return out
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open("  ")
	assert.Error(t, err)
}

func TestGet(t *testing.T) {
	store := openSeeded(t)
	ctx := context.Background()

	song, err := store.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, songbook.Song{
		ID:           1,
		Title:        "Amazing Grace",
		Artist:       "John Newton",
		KeySignature: "G",
		Chords:       []string{"G", "C", "D"},
		Lyrics:       "[G]Amazing [C]grace how [G]sweet the [D]sound",
	}, song)

	song, err = store.Get(ctx, 2)
	require.NoError(t, err)
	require.NotNil(t, song.Sections)
	assert.Equal(t, "[Bb]O Lord my [Eb]God", song.Sections.String())

	song, err = store.Get(ctx, 4)
	require.NoError(t, err)
	assert.Nil(t, song.Chords)
	assert.Nil(t, song.Sections)

	_, err = store.Get(ctx, 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetHonoursContext(t *testing.T) {
	store := openSeeded(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Get(ctx, 1)
	assert.ErrorIs(t, err, context.Canceled)
	_, err = store.List(ctx, Filter{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestListFiltersAndPages(t *testing.T) {
	store := openSeeded(t)
	ctx := context.Background()

	page, err := store.List(ctx, Filter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"100% Love", "Amazing Grace", "Blessed Assurance", "How Great Thou Art"}, titles(page.Songs))
	assert.Equal(t, 4, page.Total)
	assert.Equal(t, DefaultLimit, page.Limit)
	assert.False(t, page.HasMore())

	tests := []struct {
		name   string
		filter Filter
		want   []string
		total  int
	}{
		{"title match ignores case", Filter{Query: "GRACE"}, []string{"Amazing Grace"}, 1},
		{"query matches artist", Filter{Query: "boberg"}, []string{"How Great Thou Art"}, 1},
		{"percent is literal", Filter{Query: "%"}, []string{"100% Love"}, 1},
		{"underscore is literal", Filter{Query: "t_a"}, []string{"100% Love"}, 1},
		{"artist only", Filter{Artist: "crosby"}, []string{"Blessed Assurance"}, 1},
		{"artist and query", Filter{Query: "a", Artist: "newton"}, []string{"Amazing Grace"}, 1},
		{"first page", Filter{Limit: 2}, []string{"100% Love", "Amazing Grace"}, 4},
		{"second page", Filter{Limit: 2, Offset: 2}, []string{"Blessed Assurance", "How Great Thou Art"}, 4},
		{"past the end", Filter{Offset: 10}, []string{}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := store.List(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, titles(page.Songs))
			assert.Equal(t, tt.total, page.Total)
		})
	}

	page, err = store.List(ctx, Filter{Limit: 2, Offset: 1})
	require.NoError(t, err)
	assert.True(t, page.HasMore())

	page, err = store.List(ctx, Filter{Limit: 1000})
	require.NoError(t, err)
	assert.Equal(t, MaxLimit, page.Limit)

	_, err = store.List(ctx, Filter{Offset: -1})
	assert.Error(t, err)
}

func TestStoreIsReadOnly(t *testing.T) {
	store := openSeeded(t)

	_, err := store.sqlDB.Exec(`UPDATE songs SET key_signature = 'C' WHERE id = 1`)
	assert.Error(t, err)

	song, err := store.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "G", song.KeySignature)
}

func TestGetRejectsCorruptJSON(t *testing.T) {
	path := seed(t, []row{{7, "Broken", "", "C", `["C",`, "", nil}})
	store, err := Open(path)
	require.NoError(t, err)
	defer store.Close()

	_, err = store.Get(context.Background(), 7)
	assert.ErrorContains(t, err, "decode chords of song 7")
}

func TestRenderStoredSong(t *testing.T) {
	store := openSeeded(t)
	renderer, err := songbook.NewRenderer(nil, &logging.NoOpLogger{})
	require.NoError(t, err)

	song, err := store.Get(context.Background(), 2)
	require.NoError(t, err)

	view, err := renderer.Render(song, "C")
	require.NoError(t, err)
	assert.Equal(t, "[C]O Lord my [F]God", view.Lyrics)
	assert.Equal(t, []string{"C", "F", "G"}, view.Chords)
}
