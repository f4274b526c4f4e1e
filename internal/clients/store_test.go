package clients

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/vmunix/cinegate/internal/migrations"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err, "open db")
	t.Cleanup(func() { _ = db.Close() })

	// Every pooled connection gets its own in-memory database; pin to one
	// so the schema is visible to all queries.
	db.SetMaxOpenConns(1)

	_, err = db.Exec(migrations.InitialSQL)
	require.NoError(t, err, "apply schema")
	return db
}

func TestStore_Register(t *testing.T) {
	store := NewStore(setupTestDB(t))
	ctx := context.Background()

	client, err := store.Register(ctx, "Acme Frontend", "team@acme.example")
	require.NoError(t, err)

	assert.NotZero(t, client.ID)
	assert.Equal(t, "Acme Frontend", client.Name)
	assert.Equal(t, "team@acme.example", client.Email)
	assert.NotEmpty(t, client.APIKey)
	assert.False(t, client.CreatedAt.IsZero())

	// 32 random bytes, raw URL-safe base64
	assert.Len(t, client.APIKey, 43)
	assert.NotContains(t, client.APIKey, "+")
	assert.NotContains(t, client.APIKey, "/")
	assert.NotContains(t, client.APIKey, "=")
}

func TestStore_Register_MissingFields(t *testing.T) {
	store := NewStore(setupTestDB(t))
	ctx := context.Background()

	_, err := store.Register(ctx, "", "team@acme.example")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = store.Register(ctx, "Acme", "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestStore_Register_DuplicateEmail(t *testing.T) {
	store := NewStore(setupTestDB(t))
	ctx := context.Background()

	_, err := store.Register(ctx, "First", "shared@acme.example")
	require.NoError(t, err)

	_, err = store.Register(ctx, "Second", "shared@acme.example")
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestStore_Register_ConcurrentSameEmail(t *testing.T) {
	store := NewStore(setupTestDB(t))
	ctx := context.Background()

	const attempts = 8
	errs := make([]error, attempts)

	var wg sync.WaitGroup
	for i := range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = store.Register(ctx, "Racer", "race@acme.example")
		}()
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, ErrDuplicateEmail)
		}
	}
	assert.Equal(t, 1, succeeded, "exactly one concurrent registration may win")
}

func TestStore_Register_UniqueKeys(t *testing.T) {
	store := NewStore(setupTestDB(t))
	ctx := context.Background()

	seen := map[string]bool{}
	for i := range 20 {
		c, err := store.Register(ctx, "Client", fmt.Sprintf("client%d@acme.example", i))
		require.NoError(t, err)
		assert.False(t, seen[c.APIKey], "api key reused")
		seen[c.APIKey] = true
	}
}

func TestStore_FindByKey(t *testing.T) {
	store := NewStore(setupTestDB(t))
	ctx := context.Background()

	created, err := store.Register(ctx, "Acme", "team@acme.example")
	require.NoError(t, err)

	found, err := store.FindByKey(ctx, created.APIKey)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, created.Email, found.Email)
	assert.Equal(t, created.APIKey, found.APIKey)
}

func TestStore_FindByKey_NoPartialMatch(t *testing.T) {
	store := NewStore(setupTestDB(t))
	ctx := context.Background()

	created, err := store.Register(ctx, "Acme", "team@acme.example")
	require.NoError(t, err)

	_, err = store.FindByKey(ctx, created.APIKey[:len(created.APIKey)-1])
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.FindByKey(ctx, "no-such-key")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_FindByEmail(t *testing.T) {
	store := NewStore(setupTestDB(t))
	ctx := context.Background()

	created, err := store.Register(ctx, "Acme", "team@acme.example")
	require.NoError(t, err)

	found, err := store.FindByEmail(ctx, "team@acme.example")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = store.FindByEmail(ctx, "other@acme.example")
	assert.ErrorIs(t, err, ErrNotFound)
}
