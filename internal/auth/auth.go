// Package auth gates protected HTTP operations behind the admin key or a
// registered client key.
package auth

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/vmunix/cinegate/internal/clients"
)

const bearerPrefix = "Bearer "

// Guard validates bearer credentials ahead of protected handlers.
type Guard struct {
	adminKey string
	store    *clients.Store
	logger   *slog.Logger
}

// NewGuard creates a new guard. The admin key satisfies both policies;
// client keys are checked against the store.
func NewGuard(adminKey string, store *clients.Store, logger *slog.Logger) *Guard {
	if logger == nil {
		logger = slog.Default()
	}
	return &Guard{
		adminKey: adminKey,
		store:    store,
		logger:   logger,
	}
}

// bearerToken extracts the token from the Authorization header.
// Returns false if the header is absent or not in "Bearer <token>" form.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", false
	}
	token := header[len(bearerPrefix):]
	if token == "" {
		return "", false
	}
	return token, true
}

// RequireAdmin wraps a handler and rejects any request whose bearer token is
// not the configured admin key. The inner handler never runs on denial.
func (g *Guard) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			g.deny(w, r, "admin", "missing or malformed bearer token")
			return
		}
		if token != g.adminKey {
			g.deny(w, r, "admin", "token does not match admin key")
			return
		}

		g.logger.Info("access granted", "policy", "admin", "path", r.URL.Path)
		next(w, r)
	}
}

// RequireClient wraps a handler and rejects any request whose bearer token is
// neither the admin key nor a registered client key.
func (g *Guard) RequireClient(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			g.deny(w, r, "client", "missing or malformed bearer token")
			return
		}

		// Admin key implicitly satisfies the client policy.
		if token == g.adminKey {
			g.logger.Info("access granted", "policy", "client", "principal", "admin", "path", r.URL.Path)
			next(w, r)
			return
		}

		client, err := g.store.FindByKey(r.Context(), token)
		if err != nil {
			if errors.Is(err, clients.ErrNotFound) {
				g.deny(w, r, "client", "unknown api key")
				return
			}
			g.logger.Error("client lookup failed", "error", err)
			g.deny(w, r, "client", "unknown api key")
			return
		}

		g.logger.Info("access granted", "policy", "client", "client_id", client.ID, "path", r.URL.Path)
		next(w, r)
	}
}

func (g *Guard) deny(w http.ResponseWriter, r *http.Request, policy, reason string) {
	g.logger.Warn("access denied",
		"policy", policy,
		"reason", reason,
		"path", r.URL.Path,
		"remote", r.RemoteAddr,
	)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid api key"})
}
