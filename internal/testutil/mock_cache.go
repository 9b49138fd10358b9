package testutil

import (
	"context"
	"sync"

	"comfort-route/internal/models"
)

// MockRouteCache is an in-memory database.RouteCacheRepository
type MockRouteCache struct {
	mu      sync.Mutex
	Entries map[string]models.RouteCacheEntry
	GetErr  error
	SetErr  error
	Gets    int
	Sets    int
}

func NewMockRouteCache() *MockRouteCache {
	return &MockRouteCache{
		Entries: make(map[string]models.RouteCacheEntry),
	}
}

func (m *MockRouteCache) Get(ctx context.Context, key string) (*models.RouteCacheEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Gets++
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	entry, ok := m.Entries[key]
	if !ok {
		return nil, nil
	}
	return &entry, nil
}

func (m *MockRouteCache) Set(ctx context.Context, entry *models.RouteCacheEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Sets++
	if m.SetErr != nil {
		return m.SetErr
	}
	m.Entries[entry.Key] = *entry
	return nil
}

func (m *MockRouteCache) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Entries), nil
}

func (m *MockRouteCache) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Entries = make(map[string]models.RouteCacheEntry)
	return nil
}
