package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/bioenergy-org/catalog-core/internal/core/domain"
)

// MockDatasetStore is a testify mock of DatasetStore
type MockDatasetStore struct {
	mock.Mock
}

func (m *MockDatasetStore) Upsert(ctx context.Context, ds *domain.Dataset) error {
	args := m.Called(ctx, ds)
	return args.Error(0)
}

func (m *MockDatasetStore) UpsertBatch(ctx context.Context, datasets []*domain.Dataset) error {
	args := m.Called(ctx, datasets)
	return args.Error(0)
}

func (m *MockDatasetStore) Get(ctx context.Context, uid string, scope domain.Predicate) (*domain.Dataset, error) {
	args := m.Called(ctx, uid, scope)
	if ds := args.Get(0); ds != nil {
		return ds.(*domain.Dataset), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDatasetStore) Find(ctx context.Context, where domain.Predicate, page domain.Page) ([]*domain.Dataset, error) {
	args := m.Called(ctx, where, page)
	if ds := args.Get(0); ds != nil {
		return ds.([]*domain.Dataset), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDatasetStore) List(ctx context.Context, where domain.Predicate) ([]*domain.Dataset, error) {
	args := m.Called(ctx, where)
	if ds := args.Get(0); ds != nil {
		return ds.([]*domain.Dataset), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDatasetStore) Count(ctx context.Context, where domain.Predicate) (int, error) {
	args := m.Called(ctx, where)
	return args.Int(0), args.Error(1)
}

func (m *MockDatasetStore) FacetCounts(ctx context.Context, where domain.Predicate, topics []domain.TopicQuery) ([]domain.FacetCount, error) {
	args := m.Called(ctx, where, topics)
	if rows := args.Get(0); rows != nil {
		return rows.([]domain.FacetCount), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDatasetStore) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
