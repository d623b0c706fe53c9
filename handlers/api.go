package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/MarginallyHarmless/MovieBot/services"
)

type addMovieRequest struct {
	ExternalID int `json:"externalId"`
}

// AddMovie handles POST /api/movies: resolve the TMDB id to full details,
// then insert. A picker click races another friend's click only at the
// store's unique constraint, which turns the loser into a 409.
func (h *Handler) AddMovie(w http.ResponseWriter, r *http.Request) {
	var req addMovieRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ExternalID <= 0 {
		respondError(w, http.StatusBadRequest, "externalId is required")
		return
	}

	movie, err := h.metadata.MovieDetails(r.Context(), req.ExternalID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			respondError(w, http.StatusNotFound, "movie not found")
			return
		}
		respondServiceError(w, err)
		return
	}

	inserted, err := h.store.InsertIfAbsent(r.Context(), *movie)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	slog.Info("Movie added via web", "tmdb_id", inserted.TMDBID, "title", inserted.Title)
	respondJSON(w, http.StatusCreated, inserted)
}

// ToggleSeen handles POST /api/movies/{id}/toggle-seen and answers with the
// flag's new stored value so the client can reconcile optimistic state.
func (h *Handler) ToggleSeen(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	seen, err := h.store.ToggleSeen(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"seen": seen})
}

// DeleteMovie handles DELETE /api/movies/{id}.
func (h *Handler) DeleteMovie(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.store.DeleteByID(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}

	slog.Info("Movie deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

// SearchMetadata handles GET /api/metadata/search?q= for the add picker.
// Queries under two characters get an empty list rather than an error.
func (h *Handler) SearchMetadata(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if len(q) < 2 {
		respondJSON(w, http.StatusOK, []any{})
		return
	}

	results, err := h.metadata.SearchMovies(r.Context(), q, services.SearchResultLimit)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, results)
}

// ListMovies handles GET /api/movies.
func (h *Handler) ListMovies(w http.ResponseWriter, r *http.Request) {
	movies, err := h.store.ListAll(r.Context(), r.URL.Query().Get("order"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, movies)
}

// ListGenres handles GET /api/genres.
func (h *Handler) ListGenres(w http.ResponseWriter, r *http.Request) {
	genres, err := h.store.AllGenres(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if genres == nil {
		genres = []string{}
	}
	respondJSON(w, http.StatusOK, genres)
}

// Stats handles GET /api/stats.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	count, err := h.store.Count(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	genres, err := h.store.AllGenres(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{
		"total_movies": count,
		"total_genres": len(genres),
	})
}
