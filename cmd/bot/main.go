package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/MarginallyHarmless/MovieBot/bot"
	"github.com/MarginallyHarmless/MovieBot/config"
	"github.com/MarginallyHarmless/MovieBot/database"
	"github.com/MarginallyHarmless/MovieBot/logger"
	"github.com/MarginallyHarmless/MovieBot/services"
)

func main() {
	cfg, err := config.Load(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.ValidateBot(); err != nil {
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

	handler, err := bot.NewHandler(cfg, store, tmdb, log)
	if err != nil {
		log.Error("Failed to initialize bot", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("Movie bot is running")
	handler.Start(ctx)
	log.Info("Movie bot shut down")
}
