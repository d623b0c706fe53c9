package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MarginallyHarmless/MovieBot/models"
	"github.com/MarginallyHarmless/MovieBot/services"
)

// MovieStore is the slice of the collection store the web layer uses.
type MovieStore interface {
	InsertIfAbsent(ctx context.Context, m models.Movie) (*models.Movie, error)
	ListAll(ctx context.Context, order string) ([]models.Movie, error)
	ToggleSeen(ctx context.Context, id int) (bool, error)
	DeleteByID(ctx context.Context, id int) error
	Count(ctx context.Context) (int, error)
	AllGenres(ctx context.Context) ([]string, error)
}

// MetadataClient is the slice of the TMDB client the web layer uses.
type MetadataClient interface {
	MovieDetails(ctx context.Context, tmdbID int) (*models.Movie, error)
	SearchMovies(ctx context.Context, query string, limit int) ([]models.Movie, error)
}

type Handler struct {
	store    MovieStore
	metadata MetadataClient
	tmpl     *template.Template
}

// New builds the web handler set. templateDir is where the page templates
// live, normally "templates".
func New(store MovieStore, metadata MetadataClient, templateDir string) (*Handler, error) {
	tmpl, err := template.New("movies").Funcs(templateFuncs()).ParseFiles(
		templateDir+"/layouts/base.html",
		templateDir+"/pages/movies.html",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	return &Handler{store: store, metadata: metadata, tmpl: tmpl}, nil
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"lower": strings.ToLower,
		"joinGenres": func(genres []string) string {
			return strings.Join(genres, ", ")
		},
		"rfc3339": func(t time.Time) string {
			return t.Format(time.RFC3339)
		},
	}
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

// respondServiceError maps the service error taxonomy onto HTTP statuses.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrDuplicate):
		respondJSON(w, http.StatusConflict, map[string]bool{"duplicate": true})
	case errors.Is(err, services.ErrNotFound):
		respondError(w, http.StatusNotFound, "not found")
	case errors.Is(err, services.ErrMetadataUnavailable):
		slog.Error("Metadata service failure", "error", err)
		respondError(w, http.StatusBadGateway, "metadata service unavailable")
	default:
		slog.Error("Store failure", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

func parseIDParam(r *http.Request) (int, error) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id parameter")
	}
	return id, nil
}
