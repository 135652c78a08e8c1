package mocks

import (
	"context"
	"sync"

	"github.com/bioenergy-org/catalog-core/internal/core/domain"
)

// MockSequenceSearcher returns fixed hits and records the sequences it saw
type MockSequenceSearcher struct {
	mu        sync.Mutex
	name      string
	hits      []domain.SequenceHit
	err       error
	sequences []string
}

// NewMockSequenceSearcher creates a searcher returning hits, or err when set
func NewMockSequenceSearcher(name string, hits []domain.SequenceHit, err error) *MockSequenceSearcher {
	return &MockSequenceSearcher{name: name, hits: hits, err: err}
}

func (m *MockSequenceSearcher) Name() string { return m.name }

func (m *MockSequenceSearcher) SearchSequence(ctx context.Context, sequence string) ([]domain.SequenceHit, error) {
	m.mu.Lock()
	m.sequences = append(m.sequences, sequence)
	m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.hits, nil
}

// Sequences returns the sequences searched so far
func (m *MockSequenceSearcher) Sequences() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.sequences...)
}
