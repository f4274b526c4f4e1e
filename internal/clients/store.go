// Package clients provides the durable registry of API clients.
package clients

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"fmt"
	"strings"
	"time"
)

// Client represents a registered API consumer. Clients are created once and
// never updated or deleted; the api_key is generated at registration and
// never regenerated.
type Client struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	APIKey    string    `json:"api_key"`
	CreatedAt time.Time `json:"created_at"`
}

// Store provides access to the client registry.
type Store struct {
	db *sql.DB
}

// NewStore creates a new client store.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// mapSQLiteError converts SQLite errors to custom error types.
func mapSQLiteError(err error) error {
	if err == nil {
		return nil
	}
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	// modernc.org/sqlite wraps errors; check error message for constraint violations
	if strings.Contains(err.Error(), "UNIQUE constraint failed: api_clients.email") {
		return ErrDuplicateEmail
	}
	return err
}

// generateKey returns a new random URL-safe API key with 256 bits of entropy.
func generateKey() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate api key: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Register creates a new client with a freshly generated API key.
// Returns ErrDuplicateEmail if the email is already registered. The
// duplicate check and insert are a single statement, so two concurrent
// registrations with the same email cannot both succeed.
func (s *Store) Register(ctx context.Context, name, email string) (*Client, error) {
	if name == "" || email == "" {
		return nil, ErrInvalidInput
	}

	key, err := generateKey()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO api_clients (name, email, api_key, created_at)
		VALUES (?, ?, ?, ?)`,
		name, email, key, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert client: %w", mapSQLiteError(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("get last insert id: %w", err)
	}

	return &Client{
		ID:        id,
		Name:      name,
		Email:     email,
		APIKey:    key,
		CreatedAt: now,
	}, nil
}

// FindByKey retrieves a client by exact API key match.
// Returns ErrNotFound if no client holds the key.
func (s *Store) FindByKey(ctx context.Context, apiKey string) (*Client, error) {
	c := &Client{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, email, api_key, created_at
		FROM api_clients WHERE api_key = ?`, apiKey,
	).Scan(&c.ID, &c.Name, &c.Email, &c.APIKey, &c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("find client by key: %w", mapSQLiteError(err))
	}
	return c, nil
}

// FindByEmail retrieves a client by email.
// Returns ErrNotFound if the email is not registered.
func (s *Store) FindByEmail(ctx context.Context, email string) (*Client, error) {
	c := &Client{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, email, api_key, created_at
		FROM api_clients WHERE email = ?`, email,
	).Scan(&c.ID, &c.Name, &c.Email, &c.APIKey, &c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("find client by email: %w", mapSQLiteError(err))
	}
	return c, nil
}
