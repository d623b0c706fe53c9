package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MarginallyHarmless/MovieBot/config"
	"github.com/MarginallyHarmless/MovieBot/database"
	"github.com/MarginallyHarmless/MovieBot/handlers"
	"github.com/MarginallyHarmless/MovieBot/logger"
	"github.com/MarginallyHarmless/MovieBot/middleware"
	"github.com/MarginallyHarmless/MovieBot/services"
)

func main() {
	cfg, err := config.Load(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.ValidateWeb(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Environment, cfg.Debug)
	log := logger.Default()

	if err := database.Connect(cfg.DatabaseURL); err != nil {
		log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	if err := database.RunMigrations(); err != nil {
		log.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	store := services.NewMovieStore(database.DB)
	tmdb := services.NewTMDBClient(cfg.TMDBAPIKey)

	h, err := handlers.New(store, tmdb, "templates")
	if err != nil {
		log.Error("Failed to initialize handlers", "error", err)
		os.Exit(1)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recover)
	r.Use(middleware.Logging)

	r.Get("/", h.Index)
	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("pong"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/movies", h.ListMovies)
		r.Post("/movies", h.AddMovie)
		r.Post("/movies/{id}/toggle-seen", h.ToggleSeen)
		r.Delete("/movies/{id}", h.DeleteMovie)
		r.Get("/metadata/search", h.SearchMetadata)
		r.Get("/genres", h.ListGenres)
		r.Get("/stats", h.Stats)
	})

	fs := http.FileServer(http.Dir("static"))
	r.Handle("/static/*", http.StripPrefix("/static/", fs))

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("Movie site starting", "addr", srv.Addr, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Shutdown error", "error", err)
	}
	log.Info("Movie site shut down")
}
