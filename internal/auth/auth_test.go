package auth

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/vmunix/cinegate/internal/clients"
	"github.com/vmunix/cinegate/internal/migrations"
)

const adminKey = "test-admin-key"

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func setupGuard(t *testing.T) (*Guard, *clients.Client) {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	db.SetMaxOpenConns(1)

	_, err = db.Exec(migrations.InitialSQL)
	require.NoError(t, err)

	store := clients.NewStore(db)
	client, err := store.Register(context.Background(), "Test Client", "client@test.example")
	require.NoError(t, err)

	return NewGuard(adminKey, store, testLogger()), client
}

// protected returns a handler that counts invocations, for verifying that
// denied requests never reach the body.
func protected(calls *int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		*calls++
		w.WriteHeader(http.StatusOK)
	}
}

func doRequest(handler http.HandlerFunc, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func TestRequireAdmin(t *testing.T) {
	guard, client := setupGuard(t)

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"not bearer", "Basic dXNlcjpwYXNz", http.StatusUnauthorized},
		{"empty token", "Bearer ", http.StatusUnauthorized},
		{"wrong key", "Bearer wrong-key", http.StatusUnauthorized},
		{"client key rejected", "Bearer " + client.APIKey, http.StatusUnauthorized},
		{"admin key", "Bearer " + adminKey, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			w := doRequest(guard.RequireAdmin(protected(&calls)), tt.authHeader)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, 1, calls, "inner handler should run")
			} else {
				assert.Zero(t, calls, "inner handler must not run on denial")
				var body map[string]string
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.NotEmpty(t, body["error"])
			}
		})
	}
}

func TestRequireClient(t *testing.T) {
	guard, client := setupGuard(t)

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"not bearer", "Token abc", http.StatusUnauthorized},
		{"empty token", "Bearer ", http.StatusUnauthorized},
		{"unknown key", "Bearer not-registered", http.StatusUnauthorized},
		{"client key", "Bearer " + client.APIKey, http.StatusOK},
		{"admin key satisfies client policy", "Bearer " + adminKey, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			w := doRequest(guard.RequireClient(protected(&calls)), tt.authHeader)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, 1, calls)
			} else {
				assert.Zero(t, calls, "inner handler must not run on denial")
			}
		})
	}
}
