package mocks

import (
	"context"
	"fmt"

	"github.com/bioenergy-org/catalog-core/internal/core/domain"
)

// MockFeedSource serves feed bodies from memory, keyed by feed URL
type MockFeedSource struct {
	Bodies map[string][]byte
	Errors map[string]error
}

// NewMockFeedSource creates a new MockFeedSource
func NewMockFeedSource() *MockFeedSource {
	return &MockFeedSource{
		Bodies: make(map[string][]byte),
		Errors: make(map[string]error),
	}
}

func (m *MockFeedSource) Fetch(ctx context.Context, feed domain.Feed) ([]byte, error) {
	if err := m.Errors[feed.URL]; err != nil {
		return nil, err
	}
	body, ok := m.Bodies[feed.URL]
	if !ok {
		return nil, fmt.Errorf("feed %s: no body", feed.URL)
	}
	return body, nil
}
