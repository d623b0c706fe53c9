package models

import "time"

// Movie is the single persisted entity: one row per TMDB id. Everything except
// the Seen flag is immutable after insert.
type Movie struct {
	ID              int       `json:"id"`
	TMDBID          int       `json:"tmdb_id"`
	Title           string    `json:"title"`
	Year            int       `json:"year,omitempty"`
	PosterURL       string    `json:"poster_url,omitempty"`
	Genres          []string  `json:"genres"`
	Overview        string    `json:"overview,omitempty"`
	Seen            bool      `json:"seen"`
	AddedByUsername string    `json:"added_by_username,omitempty"`
	AddedByAvatar   string    `json:"added_by_avatar,omitempty"`
	SourceURL       string    `json:"source_url,omitempty"`
	AddedAt         time.Time `json:"added_at"`
}

type RefService string

const (
	ServiceIMDb           RefService = "imdb"
	ServiceNetflix        RefService = "netflix"
	ServiceRottenTomatoes RefService = "rottentomatoes"
)

// ExternalRef is a movie identifier recognized in chat text. ID holds the
// service-native identifier: an IMDb title id (tt1375666), a Netflix numeric
// id, or a Rotten Tomatoes slug.
type ExternalRef struct {
	Service RefService
	ID      string
	URL     string
}
