package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/MarginallyHarmless/MovieBot/models"
)

// Genres are stored comma-joined in a single TEXT column; the store joins and
// splits at this boundary so the rest of the code only sees []string.
const genreSeparator = ", "

// MovieStore is a thin CRUD facade over the movies table. Uniqueness of
// tmdb_id is enforced by the table constraint, not by application locks, so
// concurrent inserts of the same movie cannot both succeed.
type MovieStore struct {
	db *sql.DB
}

func NewMovieStore(db *sql.DB) *MovieStore {
	return &MovieStore{db: db}
}

const movieColumns = `id, tmdb_id, title, COALESCE(year, 0), COALESCE(poster_url, ''),
	COALESCE(genres, ''), COALESCE(overview, ''), seen,
	COALESCE(added_by_username, ''), COALESCE(added_by_avatar, ''),
	COALESCE(source_url, ''), added_at`

func scanMovie(row interface{ Scan(...any) error }) (models.Movie, error) {
	var m models.Movie
	var genres string
	err := row.Scan(&m.ID, &m.TMDBID, &m.Title, &m.Year, &m.PosterURL,
		&genres, &m.Overview, &m.Seen,
		&m.AddedByUsername, &m.AddedByAvatar, &m.SourceURL, &m.AddedAt)
	if err != nil {
		return m, err
	}
	m.Genres = splitGenres(genres)
	return m, nil
}

func splitGenres(s string) []string {
	if s == "" {
		return nil
	}
	var genres []string
	for _, g := range strings.Split(s, ",") {
		if g = strings.TrimSpace(g); g != "" {
			genres = append(genres, g)
		}
	}
	return genres
}

// InsertIfAbsent inserts a movie, relying on the tmdb_id unique constraint
// for de-duplication. A conflicting insert returns ErrDuplicate and leaves
// the existing row untouched.
func (s *MovieStore) InsertIfAbsent(ctx context.Context, m models.Movie) (*models.Movie, error) {
	query := `
		INSERT INTO movies (tmdb_id, title, year, poster_url, genres, overview,
			added_by_username, added_by_avatar, source_url, added_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, COALESCE($10, CURRENT_TIMESTAMP))
		ON CONFLICT (tmdb_id) DO NOTHING
		RETURNING id, added_at
	`

	addedAt := sql.NullTime{Time: m.AddedAt, Valid: !m.AddedAt.IsZero()}

	err := s.db.QueryRowContext(ctx, query,
		m.TMDBID, m.Title, nullableInt(m.Year), nullableString(m.PosterURL),
		strings.Join(m.Genres, genreSeparator), nullableString(m.Overview),
		nullableString(m.AddedByUsername), nullableString(m.AddedByAvatar),
		nullableString(m.SourceURL), addedAt,
	).Scan(&m.ID, &m.AddedAt)
	if errors.Is(err, sql.ErrNoRows) {
		// DO NOTHING returned no row: the constraint fired.
		return nil, ErrDuplicate
	}
	if err != nil {
		return nil, fmt.Errorf("%w: inserting movie: %v", ErrStoreUnavailable, err)
	}
	return &m, nil
}

// ListAll returns the whole collection ordered by added_at. order is
// "oldest" for ascending, anything else means newest first.
func (s *MovieStore) ListAll(ctx context.Context, order string) ([]models.Movie, error) {
	direction := "DESC"
	if order == "oldest" {
		direction = "ASC"
	}

	query := fmt.Sprintf(`SELECT %s FROM movies ORDER BY added_at %s, id %s`,
		movieColumns, direction, direction)
	return s.queryMovies(ctx, query)
}

// Recent returns the most recently added movies, capped at limit.
func (s *MovieStore) Recent(ctx context.Context, limit int) ([]models.Movie, error) {
	query := fmt.Sprintf(`SELECT %s FROM movies ORDER BY added_at DESC, id DESC LIMIT $1`, movieColumns)
	return s.queryMovies(ctx, query, limit)
}

// SearchByTitle does a case-insensitive substring match against titles.
func (s *MovieStore) SearchByTitle(ctx context.Context, q string) ([]models.Movie, error) {
	query := fmt.Sprintf(`SELECT %s FROM movies WHERE title ILIKE $1 ORDER BY added_at DESC, id DESC`, movieColumns)
	return s.queryMovies(ctx, query, "%"+q+"%")
}

func (s *MovieStore) queryMovies(ctx context.Context, query string, args ...any) ([]models.Movie, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: listing movies: %v", ErrStoreUnavailable, err)
	}
	defer rows.Close()

	movies := []models.Movie{}
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning movie: %v", ErrStoreUnavailable, err)
		}
		movies = append(movies, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return movies, nil
}

func (s *MovieStore) GetByID(ctx context.Context, id int) (*models.Movie, error) {
	query := fmt.Sprintf(`SELECT %s FROM movies WHERE id = $1`, movieColumns)
	m, err := scanMovie(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return &m, nil
}

func (s *MovieStore) GetByTMDBID(ctx context.Context, tmdbID int) (*models.Movie, error) {
	query := fmt.Sprintf(`SELECT %s FROM movies WHERE tmdb_id = $1`, movieColumns)
	m, err := scanMovie(s.db.QueryRowContext(ctx, query, tmdbID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return &m, nil
}

// SetSeen sets the one mutable flag and returns the stored value.
func (s *MovieStore) SetSeen(ctx context.Context, id int, seen bool) (bool, error) {
	var stored bool
	err := s.db.QueryRowContext(ctx,
		`UPDATE movies SET seen = $2 WHERE id = $1 RETURNING seen`, id, seen).Scan(&stored)
	if errors.Is(err, sql.ErrNoRows) {
		return false, ErrNotFound
	}
	if err != nil {
		return false, fmt.Errorf("%w: updating seen: %v", ErrStoreUnavailable, err)
	}
	return stored, nil
}

// ToggleSeen flips the seen flag atomically and returns the new value.
func (s *MovieStore) ToggleSeen(ctx context.Context, id int) (bool, error) {
	var seen bool
	err := s.db.QueryRowContext(ctx,
		`UPDATE movies SET seen = NOT seen WHERE id = $1 RETURNING seen`, id).Scan(&seen)
	if errors.Is(err, sql.ErrNoRows) {
		return false, ErrNotFound
	}
	if err != nil {
		return false, fmt.Errorf("%w: toggling seen: %v", ErrStoreUnavailable, err)
	}
	return seen, nil
}

func (s *MovieStore) DeleteByID(ctx context.Context, id int) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM movies WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: deleting movie: %v", ErrStoreUnavailable, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MovieStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM movies`).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: counting movies: %v", ErrStoreUnavailable, err)
	}
	return count, nil
}

// AllGenres flattens every row's genre list into a sorted, de-duplicated
// slice for the filter dropdown.
func (s *MovieStore) AllGenres(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT COALESCE(genres, '') FROM movies`)
	if err != nil {
		return nil, fmt.Errorf("%w: listing genres: %v", ErrStoreUnavailable, err)
	}
	defer rows.Close()

	genreSet := make(map[string]bool)
	for rows.Next() {
		var genres string
		if err := rows.Scan(&genres); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		for _, g := range splitGenres(genres) {
			genreSet[g] = true
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	var all []string
	for g := range genreSet {
		all = append(all, g)
	}
	sort.Strings(all)
	return all, nil
}

func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullableInt(n int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(n), Valid: n != 0}
}
