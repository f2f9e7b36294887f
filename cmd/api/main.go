// Command api runs the crossword solver HTTP API server.
package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"motscroises/internal/api"
	"motscroises/internal/dictionary"
	"motscroises/internal/solve"
	"motscroises/internal/store"
)

func main() {
	_ = godotenv.Load()

	var (
		addr       = flag.String("addr", envOr("PORT", ":8080"), "HTTP server address")
		dbPath     = flag.String("db", envOr("DATABASE_PATH", "solve.db"), "SQLite database path")
		dictPath   = flag.String("dict", envOr("DICTIONARY_PATH", "words.txt"), "Path to the word list backing /v1/dictionary lookups")
		maxWordLen = flag.Int("max-word-length", envOrInt("MAX_WORD_LENGTH", 21), "Longest word the dictionary index keeps buckets for")
		cutoff     = flag.Int("restart-cutoff", envOrInt("RESTART_CUTOFF", 70000), "Propagation failures before a search worker restarts")
		threads    = flag.Int("threads", envOrInt("SEARCH_THREADS", 4), "Parallel search workers per solve job")
	)
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	dictFile, err := os.Open(*dictPath)
	if err != nil {
		logger.Error("failed to open dictionary", "path", *dictPath, "error", err)
		os.Exit(1)
	}
	dict, err := dictionary.Load(dictFile, *maxWordLen)
	dictFile.Close()
	if err != nil {
		logger.Error("failed to load dictionary", "path", *dictPath, "error", err)
		os.Exit(1)
	}
	logger.Info("loaded dictionary", "path", *dictPath)

	// Initialize database
	db, err := store.NewSQLiteStore(*dbPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run migrations
	if err := db.Migrate(context.Background()); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Create router. The dictionary here only backs /v1/dictionary lookups;
	// solve jobs build their own candidate dictionary from each request's
	// word list, so job results never depend on what's loaded at startup.
	router := api.NewRouter(api.Config{
		Store:      db,
		Dictionary: dict,
		SolveOpts:  solve.Options{Cutoff: *cutoff, Threads: *threads, Logger: logger},
		Logger:     logger,
	})

	// Create server
	server := &http.Server{
		Addr:         *addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("starting server", "addr", *addr)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-done
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}

	logger.Info("server stopped")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envOrInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
