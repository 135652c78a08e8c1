package mocks

import (
	"context"
	"strconv"
	"sync"

	"github.com/bioenergy-org/catalog-core/internal/core/domain"
)

// MockFacetCache is an in-memory FacetCache for testing. Like the Redis
// cache, slots carry a generation that Invalidate advances.
type MockFacetCache struct {
	mu          sync.Mutex
	generation  int
	entries     map[string]domain.Facets
	invalidated int

	// GetErr, when set, is returned by Get
	GetErr error
}

// NewMockFacetCache creates a new MockFacetCache
func NewMockFacetCache() *MockFacetCache {
	return &MockFacetCache{entries: make(map[string]domain.Facets)}
}

func (m *MockFacetCache) slot(key string) string {
	return strconv.Itoa(m.generation) + ":" + key
}

func (m *MockFacetCache) Get(ctx context.Context, key string) (domain.Facets, string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, "", false, m.GetErr
	}
	slot := m.slot(key)
	f, ok := m.entries[slot]
	return f, slot, ok, nil
}

func (m *MockFacetCache) Set(ctx context.Context, slot string, facets domain.Facets) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[slot] = facets
	return nil
}

func (m *MockFacetCache) Invalidate(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.generation++
	m.entries = make(map[string]domain.Facets)
	m.invalidated++
	return nil
}

// Len returns the number of cached entries
func (m *MockFacetCache) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Invalidations returns how many times Invalidate was called
func (m *MockFacetCache) Invalidations() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.invalidated
}
