package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/MarginallyHarmless/MovieBot/models"
)

const (
	tmdbBaseURL   = "https://api.themoviedb.org/3"
	tmdbImageBase = "https://image.tmdb.org/t/p/w500"

	// SearchResultLimit caps the candidates returned to the manual-add picker.
	SearchResultLimit = 8
)

// TMDBClient talks to The Movie Database. Every call hits the network; no
// caching (collection volume is tiny).
type TMDBClient struct {
	APIKey     string
	BaseURL    string
	ImageBase  string
	HTTPClient *http.Client
}

func NewTMDBClient(apiKey string) *TMDBClient {
	return &TMDBClient{
		APIKey:    apiKey,
		BaseURL:   tmdbBaseURL,
		ImageBase: tmdbImageBase,
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type tmdbMovie struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	ReleaseDate string `json:"release_date"`
	Overview    string `json:"overview"`
	PosterPath  string `json:"poster_path"`
	GenreIDs    []int  `json:"genre_ids"`
	Genres      []struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"genres"`
}

type tmdbFindResponse struct {
	MovieResults []tmdbMovie `json:"movie_results"`
}

type tmdbSearchResponse struct {
	Results []tmdbMovie `json:"results"`
}

func (c *TMDBClient) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.APIKey)
	apiURL := c.BaseURL + endpoint + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMetadataUnavailable, err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMetadataUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: tmdb returned status %d", ErrMetadataUnavailable, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding response: %v", ErrMetadataUnavailable, err)
	}
	return nil
}

// FindByIMDbID resolves an IMDb title id (tt1375666) to a normalized movie
// via TMDB's external-id lookup.
func (c *TMDBClient) FindByIMDbID(ctx context.Context, imdbID string) (*models.Movie, error) {
	params := url.Values{}
	params.Set("external_source", "imdb_id")

	var data tmdbFindResponse
	if err := c.get(ctx, "/find/"+url.PathEscape(imdbID), params, &data); err != nil {
		return nil, err
	}
	if len(data.MovieResults) == 0 {
		return nil, ErrNotFound
	}
	m := c.normalize(data.MovieResults[0])
	return &m, nil
}

// MovieDetails fetches full details for a TMDB movie id. Unlike search
// results, the details payload carries genre names directly.
func (c *TMDBClient) MovieDetails(ctx context.Context, tmdbID int) (*models.Movie, error) {
	var data tmdbMovie
	if err := c.get(ctx, "/movie/"+strconv.Itoa(tmdbID), nil, &data); err != nil {
		return nil, err
	}
	if data.ID == 0 {
		return nil, ErrNotFound
	}
	m := c.normalize(data)
	return &m, nil
}

// SearchMovies returns best-effort fuzzy matches for a free-text query,
// normalized and capped at limit.
func (c *TMDBClient) SearchMovies(ctx context.Context, query string, limit int) ([]models.Movie, error) {
	if limit <= 0 || limit > SearchResultLimit {
		limit = SearchResultLimit
	}

	params := url.Values{}
	params.Set("query", query)

	var data tmdbSearchResponse
	if err := c.get(ctx, "/search/movie", params, &data); err != nil {
		return nil, err
	}

	results := make([]models.Movie, 0, limit)
	for _, raw := range data.Results {
		results = append(results, c.normalize(raw))
		if len(results) == limit {
			break
		}
	}
	return results, nil
}

// searchBest returns the top search hit for a title, optionally narrowed by
// release year.
func (c *TMDBClient) searchBest(ctx context.Context, title string, year int) (*models.Movie, error) {
	params := url.Values{}
	params.Set("query", title)
	if year > 0 {
		params.Set("year", strconv.Itoa(year))
	}

	var data tmdbSearchResponse
	if err := c.get(ctx, "/search/movie", params, &data); err != nil {
		return nil, err
	}
	if len(data.Results) == 0 {
		return nil, ErrNotFound
	}
	m := c.normalize(data.Results[0])
	return &m, nil
}

// ResolveRef maps a chat-detected reference to a normalized movie. IMDb ids
// go through the external-id lookup; Rotten Tomatoes slugs become a title
// search with an optional year hint. Netflix ids live in Netflix's own id
// space with no public mapping, so those resolve as not found.
func (c *TMDBClient) ResolveRef(ctx context.Context, ref models.ExternalRef) (*models.Movie, error) {
	switch ref.Service {
	case models.ServiceIMDb:
		return c.FindByIMDbID(ctx, ref.ID)
	case models.ServiceRottenTomatoes:
		title, year := ParseRottenTomatoesSlug(ref.ID)
		return c.searchBest(ctx, title, year)
	default:
		return nil, ErrNotFound
	}
}

func (c *TMDBClient) normalize(raw tmdbMovie) models.Movie {
	m := models.Movie{
		TMDBID:   raw.ID,
		Title:    raw.Title,
		Overview: raw.Overview,
	}

	if len(raw.ReleaseDate) >= 4 {
		m.Year, _ = strconv.Atoi(raw.ReleaseDate[:4])
	}

	if raw.PosterPath != "" {
		m.PosterURL = c.ImageBase + raw.PosterPath
	}

	if len(raw.Genres) > 0 {
		// Details payloads carry genre objects.
		for _, g := range raw.Genres {
			m.Genres = append(m.Genres, g.Name)
		}
	} else {
		m.Genres = genreNames(raw.GenreIDs)
	}

	return m
}

// TMDB movie genre ids; genres change rarely enough that a static table
// beats an extra API call per lookup.
var tmdbGenreMap = map[int]string{
	28:    "Action",
	12:    "Adventure",
	16:    "Animation",
	35:    "Comedy",
	80:    "Crime",
	99:    "Documentary",
	18:    "Drama",
	10751: "Family",
	14:    "Fantasy",
	36:    "History",
	27:    "Horror",
	10402: "Music",
	9648:  "Mystery",
	10749: "Romance",
	878:   "Science Fiction",
	10770: "TV Movie",
	53:    "Thriller",
	10752: "War",
	37:    "Western",
}

func genreNames(ids []int) []string {
	var names []string
	for _, id := range ids {
		if name, ok := tmdbGenreMap[id]; ok {
			names = append(names, name)
		}
	}
	return names
}
