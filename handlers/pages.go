package handlers

import (
	"log/slog"
	"net/http"

	"github.com/MarginallyHarmless/MovieBot/models"
	"github.com/MarginallyHarmless/MovieBot/view"
)

type moviesPageData struct {
	Movies      []models.Movie
	AllGenres   []string
	TotalCount  int
	State       view.State
	SeenFilters []string
	EmptyState  bool
}

// Index renders the whole collection server-side. The browser controller
// takes over filtering afterwards, but the same view rules are honored here
// for query-param loads (shared filter links, no-JS fallback).
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	movies, err := h.store.ListAll(r.Context(), "newest")
	if err != nil {
		slog.Error("Error getting movies", "error", err)
		movies = []models.Movie{}
	}

	genres, err := h.store.AllGenres(r.Context())
	if err != nil {
		slog.Error("Error getting genres", "error", err)
	}

	state := stateFromQuery(r)
	result := view.Compute(state, cardsFromMovies(movies))

	// Map the computed order back onto full records for rendering.
	byID := make(map[int]models.Movie, len(movies))
	for _, m := range movies {
		byID[m.ID] = m
	}
	visible := make([]models.Movie, 0, len(result.Visible))
	for _, c := range result.Visible {
		visible = append(visible, byID[c.ID])
	}

	data := moviesPageData{
		Movies:      visible,
		AllGenres:   genres,
		TotalCount:  len(movies),
		State:       state,
		SeenFilters: []string{view.SeenAll, view.SeenOnly, view.SeenNot},
		EmptyState:  result.Empty(),
	}

	if err := h.tmpl.ExecuteTemplate(w, "base", data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func stateFromQuery(r *http.Request) view.State {
	state := view.DefaultState()
	q := r.URL.Query()
	if g := q.Get("genre"); g != "" {
		state.Genre = g
	}
	state.Search = q.Get("search")
	if s := q.Get("seen"); s == view.SeenOnly || s == view.SeenNot {
		state.Seen = s
	}
	if q.Get("sort") == view.SortOldest {
		state.Sort = view.SortOldest
	}
	return state
}

func cardsFromMovies(movies []models.Movie) []view.Card {
	cards := make([]view.Card, 0, len(movies))
	for _, m := range movies {
		cards = append(cards, view.Card{
			ID:      m.ID,
			Title:   m.Title,
			Genres:  m.Genres,
			Seen:    m.Seen,
			AddedAt: m.AddedAt,
		})
	}
	return cards
}
