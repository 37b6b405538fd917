package tokenstore

import (
	"context"
	"sync"
	"time"
)

// Store persists a single bearer token.
type Store interface {
	Save(ctx context.Context, token string) error
	Get(ctx context.Context) (string, error)
	Remove(ctx context.Context) error
}

// Memory is an in-process Store safe for concurrent use.
type Memory struct {
	mu      sync.RWMutex
	token   string
	savedAt time.Time
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Save(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	if token == "" {
		m.savedAt = time.Time{}
	} else {
		m.savedAt = time.Now()
	}
	return nil
}

func (m *Memory) Get(_ context.Context) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token, nil
}

func (m *Memory) Remove(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	m.savedAt = time.Time{}
	return nil
}

// SavedAt reports when the current token was stored.
func (m *Memory) SavedAt(_ context.Context) (time.Time, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.savedAt, m.token != "", nil
}
