// Package api implements the gateway's REST surface.
package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/vmunix/cinegate/internal/auth"
	"github.com/vmunix/cinegate/internal/cache"
	"github.com/vmunix/cinegate/internal/clients"
	"github.com/vmunix/cinegate/internal/movies"
	"github.com/vmunix/cinegate/internal/tmdb"
)

// Server is the gateway API server.
type Server struct {
	guard  *auth.Guard
	store  *clients.Store
	movies *movies.Service
	cache  cache.Cache
	db     *sql.DB
	logger *slog.Logger
}

// New creates a new API server.
func New(guard *auth.Guard, store *clients.Store, svc *movies.Service, c cache.Cache, db *sql.DB, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		guard:  guard,
		store:  store,
		movies: svc,
		cache:  c,
		db:     db,
		logger: logger,
	}
}

// RegisterRoutes registers API routes on the given mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	// Admin
	mux.HandleFunc("POST /admin/clients", s.guard.RequireAdmin(s.createClient))
	mux.HandleFunc("POST /api/cache/clear", s.guard.RequireAdmin(s.clearCache))

	// Client
	mux.HandleFunc("GET /api/movies/search", s.guard.RequireClient(s.searchMovies))
	mux.HandleFunc("GET /api/movies/{id}", s.guard.RequireClient(s.getMovie))

	// System
	mux.HandleFunc("GET /api/health", s.getHealth)
}

// Error response. All failure bodies take this shape.
type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: message})
}

func writeJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(data)
}

type createClientRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (s *Server) createClient(w http.ResponseWriter, r *http.Request) {
	var req createClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Name == "" || req.Email == "" {
		writeError(w, http.StatusBadRequest, "name and email required")
		return
	}

	client, err := s.store.Register(r.Context(), req.Name, req.Email)
	if err != nil {
		if errors.Is(err, clients.ErrDuplicateEmail) {
			writeError(w, http.StatusBadRequest, "email already registered")
			return
		}
		s.logger.Error("client registration failed", "email", req.Email, "error", err)
		writeError(w, http.StatusInternalServerError, "registration failed")
		return
	}

	s.logger.Info("client registered", "client_id", client.ID, "name", client.Name, "email", client.Email)
	writeJSON(w, http.StatusCreated, client)
}

func (s *Server) getMovie(w http.ResponseWriter, r *http.Request) {
	idStr := r.PathValue("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid movie ID")
		return
	}

	bundle, err := s.movies.GetBundle(r.Context(), id, r.URL.Query().Get("language"))
	if err != nil {
		s.writeMovieError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, bundle)
}

func (s *Server) searchMovies(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page := 1
	if pageStr := q.Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil {
			page = p
		}
	}
	sortBy := movies.SortUpstream
	if q.Get("sort") == "relevance" {
		sortBy = movies.SortRelevance
	}

	result, err := s.movies.Search(r.Context(), q.Get("query"), q.Get("language"), page, sortBy)
	if err != nil {
		s.writeMovieError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// writeMovieError maps service and upstream errors to the HTTP taxonomy.
func (s *Server) writeMovieError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, movies.ErrInvalidID),
		errors.Is(err, movies.ErrInvalidLanguage),
		errors.Is(err, movies.ErrMissingQuery):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, tmdb.ErrNotFound):
		writeError(w, http.StatusNotFound, "movie not found")
	case errors.Is(err, tmdb.ErrTimeout):
		writeError(w, http.StatusInternalServerError, "upstream request timed out")
	case errors.Is(err, tmdb.ErrUnreachable):
		writeError(w, http.StatusInternalServerError, "upstream unreachable")
	default:
		var statusErr *tmdb.StatusError
		if errors.As(err, &statusErr) {
			writeError(w, http.StatusInternalServerError, statusErr.Error())
			return
		}
		s.logger.Error("movie lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (s *Server) clearCache(w http.ResponseWriter, r *http.Request) {
	if s.cache.ClearAll(r.Context()) {
		s.logger.Info("cache cleared")
		writeJSON(w, http.StatusOK, map[string]string{"message": "cache cleared"})
		return
	}
	// Cache absence is not an error.
	writeJSON(w, http.StatusOK, map[string]string{"message": "cache not available"})
}

type healthResponse struct {
	Status   string       `json:"status"`
	Cache    cache.Health `json:"cache"`
	Database string       `json:"database"`
}

func (s *Server) getHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok", Database: "ok"}

	resp.Cache = s.cache.Health(r.Context())

	if err := s.pingDB(r.Context()); err != nil {
		resp.Status = "degraded"
		resp.Database = err.Error()
	}

	code := http.StatusOK
	if resp.Status != "ok" {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, resp)
}

func (s *Server) pingDB(ctx context.Context) error {
	if s.db == nil {
		return nil
	}
	return s.db.PingContext(ctx)
}
