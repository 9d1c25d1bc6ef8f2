package main

import (
	"log/slog"
	"net/http"
	"os"

	"filmlog/config"
	"filmlog/database"
	"filmlog/handlers"
	"filmlog/logger"
	"filmlog/middleware"
	"filmlog/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger.Init(cfg.Environment, cfg.Debug)

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.RunMigrations(db); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	cache := services.NewMetadataCache(cfg.CacheTTL)
	omdb := services.NewOMDBClient(cfg.OMDBBaseURL, cfg.OMDBAPIKey, cache, logger.With("component", "omdb"))
	defer omdb.Close()

	store := services.NewMovieStore(db)
	library := services.NewLibrary(store, omdb, logger.With("component", "library"))
	flash := services.NewFlashStore(cfg.SessionSecret, cfg.IsProduction())

	h := handlers.New(library, flash, !cfg.IsProduction())

	mux := http.NewServeMux()

	// Static files
	fs := http.FileServer(http.Dir("static"))
	mux.Handle("/static/", http.StripPrefix("/static/", fs))

	mux.HandleFunc("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("pong"))
	})

	// Pages
	mux.HandleFunc("GET /{$}", h.MoviesHandler)
	mux.HandleFunc("GET /add", h.AddPageHandler)
	mux.HandleFunc("POST /add", h.AddMovieHandler)
	mux.HandleFunc("GET /update/{id}", h.UpdatePageHandler)
	mux.HandleFunc("POST /update/{id}", h.UpdateMovieHandler)
	mux.HandleFunc("GET /delete/{id}", h.DeleteMovieHandler)

	// JSON API
	mux.HandleFunc("GET /api/search", h.SearchAPIHandler)
	mux.HandleFunc("GET /api/movie-details", h.MovieDetailsAPIHandler)

	// Anything else gets the 404 page
	mux.HandleFunc("/", h.NotFoundHandler)

	addr := ":" + cfg.ServerPort
	slog.Info("Filmlog is starting", "addr", addr, "environment", cfg.Environment, "debug", cfg.Debug)

	if err := http.ListenAndServe(addr, middleware.Logging(mux)); err != nil {
		slog.Error("Server failed to start", "error", err)
		os.Exit(1)
	}
}
