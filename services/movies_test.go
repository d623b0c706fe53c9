package services

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MarginallyHarmless/MovieBot/database"
	"github.com/MarginallyHarmless/MovieBot/models"
)

// setupStore connects to the database named by TEST_DATABASE_URL and starts
// from an empty movies table. Skips when no test database is configured.
func setupStore(t *testing.T) *MovieStore {
	t.Helper()

	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping store tests")
	}

	db, err := sql.Open("pgx", dbURL)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	database.DB = db
	require.NoError(t, database.RunMigrations())

	_, err = db.Exec("TRUNCATE movies RESTART IDENTITY")
	require.NoError(t, err)

	return NewMovieStore(db)
}

func sampleMovie(tmdbID int, title string) models.Movie {
	return models.Movie{
		TMDBID:    tmdbID,
		Title:     title,
		Year:      2010,
		PosterURL: "https://image.tmdb.org/t/p/w500/abc.jpg",
		Genres:    []string{"Action", "Science Fiction"},
		Overview:  "Some overview.",
	}
}

func TestMovieStore_InsertAndDuplicate(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	inserted, err := store.InsertIfAbsent(ctx, sampleMovie(27205, "Inception"))
	require.NoError(t, err)
	assert.NotZero(t, inserted.ID)
	assert.False(t, inserted.AddedAt.IsZero())

	// Second insert of the same tmdb_id must classify as duplicate and not
	// create a row.
	_, err = store.InsertIfAbsent(ctx, sampleMovie(27205, "Inception Again"))
	assert.ErrorIs(t, err, ErrDuplicate)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	got, err := store.GetByTMDBID(ctx, 27205)
	require.NoError(t, err)
	assert.Equal(t, "Inception", got.Title)
	assert.Equal(t, []string{"Action", "Science Fiction"}, got.Genres)
	assert.False(t, got.Seen)
}

func TestMovieStore_ListOrder(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, title := range []string{"First", "Second", "Third"} {
		m := sampleMovie(100+i, title)
		m.AddedAt = base.Add(time.Duration(i) * time.Hour)
		_, err := store.InsertIfAbsent(ctx, m)
		require.NoError(t, err)
	}

	newest, err := store.ListAll(ctx, "newest")
	require.NoError(t, err)
	require.Len(t, newest, 3)
	assert.Equal(t, "Third", newest[0].Title)
	assert.Equal(t, "First", newest[2].Title)

	oldest, err := store.ListAll(ctx, "oldest")
	require.NoError(t, err)
	assert.Equal(t, "First", oldest[0].Title)

	recent, err := store.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "Third", recent[0].Title)
}

func TestMovieStore_SeenLifecycle(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	inserted, err := store.InsertIfAbsent(ctx, sampleMovie(27205, "Inception"))
	require.NoError(t, err)

	seen, err := store.ToggleSeen(ctx, inserted.ID)
	require.NoError(t, err)
	assert.True(t, seen)

	seen, err = store.ToggleSeen(ctx, inserted.ID)
	require.NoError(t, err)
	assert.False(t, seen)

	seen, err = store.SetSeen(ctx, inserted.ID, true)
	require.NoError(t, err)
	assert.True(t, seen)

	// Setting the stored value again is idempotent.
	seen, err = store.SetSeen(ctx, inserted.ID, true)
	require.NoError(t, err)
	assert.True(t, seen)

	_, err = store.ToggleSeen(ctx, 99999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMovieStore_Delete(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	inserted, err := store.InsertIfAbsent(ctx, sampleMovie(27205, "Inception"))
	require.NoError(t, err)

	require.NoError(t, store.DeleteByID(ctx, inserted.ID))
	assert.ErrorIs(t, store.DeleteByID(ctx, inserted.ID), ErrNotFound)

	_, err = store.GetByID(ctx, inserted.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMovieStore_GenresAndSearch(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	a := sampleMovie(1, "Dune")
	a.Genres = []string{"Science Fiction", "Adventure"}
	b := sampleMovie(2, "Dune: Part Two")
	b.Genres = []string{"Science Fiction"}
	c := sampleMovie(3, "Her")
	c.Genres = nil

	for _, m := range []models.Movie{a, b, c} {
		_, err := store.InsertIfAbsent(ctx, m)
		require.NoError(t, err)
	}

	genres, err := store.AllGenres(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Adventure", "Science Fiction"}, genres)

	matches, err := store.SearchByTitle(ctx, "dune")
	require.NoError(t, err)
	assert.Len(t, matches, 2)

	none, err := store.SearchByTitle(ctx, "zzz")
	require.NoError(t, err)
	assert.Empty(t, none)
}
