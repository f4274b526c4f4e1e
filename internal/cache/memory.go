package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value   []byte
	expires time.Time
}

// Memory is an in-process Cache for single-instance deployments and tests.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

// NewMemory creates an empty in-process cache.
func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]memoryEntry),
	}
}

// Get returns the payload for key if present and not expired.
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.entries[key]
	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expires) {
		return nil, false
	}
	return entry.value, true
}

// Set stores value under key until the TTL elapses.
func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = memoryEntry{
		value:   value,
		expires: time.Now().Add(ttl),
	}
	return true
}

// ClearAll drops every entry.
func (m *Memory) ClearAll(_ context.Context) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = make(map[string]memoryEntry)
	return true
}

// Health always reports healthy; the map cannot fail.
func (m *Memory) Health(_ context.Context) Health {
	return Health{Status: "healthy"}
}
