package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/cors"
	_ "modernc.org/sqlite"

	"github.com/vmunix/cinegate/internal/api"
	"github.com/vmunix/cinegate/internal/auth"
	"github.com/vmunix/cinegate/internal/cache"
	"github.com/vmunix/cinegate/internal/clients"
	"github.com/vmunix/cinegate/internal/config"
	"github.com/vmunix/cinegate/internal/migrations"
	"github.com/vmunix/cinegate/internal/movies"
	"github.com/vmunix/cinegate/internal/tmdb"
)

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.status == 200 { // Only capture first WriteHeader call
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func logRequests(next http.Handler, log *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusRecorder{ResponseWriter: w, status: 200}
		next.ServeHTTP(wrapped, r)
		log.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapped.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// newCache builds the configured cache backend.
func newCache(cfg config.CacheConfig, logger *slog.Logger) cache.Cache {
	switch cfg.Backend {
	case "redis":
		return cache.NewRedis(cache.RedisOptions{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}, logger.With("component", "cache"))
	case "disabled":
		return cache.NewDisabled()
	default:
		return cache.NewMemory()
	}
}

func runServer(configPath string) error {
	// Locate config when no -config flag was given
	if configPath == "" {
		discovered, err := config.Discover()
		if err != nil {
			return fmt.Errorf("config: %w (run with -init to create one)", err)
		}
		configPath = discovered
	}

	// Load config
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return &config.ConfigError{Path: configPath, Errors: errs}
	}

	// Create logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Server.LogLevel),
	}))

	// Ensure database directory exists
	dbDir := filepath.Dir(cfg.Database.Path)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return fmt.Errorf("create db dir: %w", err)
	}

	// Open database
	db, err := sql.Open("sqlite", cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer func() { _ = db.Close() }()

	// Run migrations
	if _, err := db.Exec(migrations.InitialSQL); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	// === Stores ===
	clientStore := clients.NewStore(db)

	// === Cache ===
	resultCache := newCache(cfg.Cache, logger)
	if h := resultCache.Health(context.Background()); h.Status == "unhealthy" {
		// Non-fatal: the gateway runs without caching, just slower.
		logger.Warn("cache backend unhealthy at startup", "backend", cfg.Cache.Backend, "error", h.Error)
	}

	// === Upstream client ===
	tmdbClient := tmdb.NewClient(cfg.TMDB.AccessToken, tmdb.WithBaseURL(cfg.TMDB.BaseURL))

	// === Services ===
	policy, err := movies.ParsePolicy(cfg.TMDB.Recommendations)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	movieService := movies.NewService(
		tmdbClient,
		resultCache,
		time.Duration(cfg.Cache.TTLSeconds)*time.Second,
		policy,
		logger.With("component", "movies"),
	)

	guard := auth.NewGuard(cfg.Security.AdminKey, clientStore, logger.With("component", "auth"))

	// === HTTP Setup ===
	mux := http.NewServeMux()
	apiServer := api.New(guard, clientStore, movieService, resultCache, db, logger.With("component", "api"))
	apiServer.RegisterRoutes(mux)

	handler := cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORS.Origins,
		AllowedMethods: cfg.CORS.Methods,
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	})(mux)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("server starting",
		"addr", addr,
		"database", cfg.Database.Path,
		"cache_backend", cfg.Cache.Backend,
		"cache_ttl_seconds", cfg.Cache.TTLSeconds,
		"recommendations", cfg.TMDB.Recommendations,
		"log_level", cfg.Server.LogLevel,
	)

	srv := &http.Server{Addr: addr, Handler: logRequests(handler, logger)}

	// Start server in goroutine
	go func() {
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("received signal, shutting down", "signal", sig.String())

	// Graceful HTTP shutdown with 30s timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}
