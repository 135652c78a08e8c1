package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bioenergy-org/catalog-core/internal/adapters/driven/memory"
	redisadapter "github.com/bioenergy-org/catalog-core/internal/adapters/driven/redis"
	"github.com/bioenergy-org/catalog-core/internal/core/domain"
	"github.com/bioenergy-org/catalog-core/internal/core/ports/driven"
	"github.com/bioenergy-org/catalog-core/internal/core/ports/driven/mocks"
)

func TestFacetAggregator_GroupsAndOrders(t *testing.T) {
	store := new(mocks.MockDatasetStore)
	topics := testCompilerTopics()
	agg := NewFacetAggregator(FacetAggregatorConfig{Store: store, Topics: topics, Logger: discardLogger()})

	where := domain.FieldIn{Field: domain.Field{"brc"}, Values: []string{"JBEI"}}
	store.On("FacetCounts", mock.Anything, where, topics).Return([]domain.FacetCount{
		{Dimension: domain.FacetYear, Value: "2019", Count: 1},
		{Dimension: domain.FacetYear, Value: "2021", Count: 4},
		{Dimension: domain.FacetYear, Value: "2020", Count: 4},
		{Dimension: domain.FacetTopic, Value: "Genomics", Count: 2},
		{Dimension: "unknown", Value: "x", Count: 9},
	}, nil)

	facets, err := agg.Aggregate(context.Background(), where)
	require.NoError(t, err)

	assert.Len(t, facets, len(domain.FacetDimensions))
	assert.Equal(t, []domain.FacetValue{
		{Value: "2020", Count: 4},
		{Value: "2021", Count: 4},
		{Value: "2019", Count: 1},
	}, facets[domain.FacetYear])
	assert.Equal(t, []domain.FacetValue{{Value: "Genomics", Count: 2}}, facets[domain.FacetTopic])
	assert.Empty(t, facets[domain.FacetSpecies])
	assert.NotNil(t, facets[domain.FacetSpecies])
	store.AssertExpectations(t)
}

func TestFacetAggregator_StoreError(t *testing.T) {
	store := new(mocks.MockDatasetStore)
	agg := NewFacetAggregator(FacetAggregatorConfig{Store: store, Logger: discardLogger()})

	store.On("FacetCounts", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("deadlock"))

	facets, err := agg.Aggregate(context.Background(), nil)
	assert.Error(t, err)
	assert.Nil(t, facets)
}

func TestFacetAggregator_UsesCache(t *testing.T) {
	store := new(mocks.MockDatasetStore)
	cache := mocks.NewMockFacetCache()
	agg := NewFacetAggregator(FacetAggregatorConfig{Store: store, Cache: cache, Logger: discardLogger()})

	store.On("FacetCounts", mock.Anything, mock.Anything, mock.Anything).Return([]domain.FacetCount{
		{Dimension: domain.FacetBRC, Value: "JBEI", Count: 1},
	}, nil).Once()

	first, err := agg.Aggregate(context.Background(), nil)
	require.NoError(t, err)
	second, err := agg.Aggregate(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, cache.Len())
	store.AssertNumberOfCalls(t, "FacetCounts", 1)
}

func TestFacetAggregator_CacheErrorFallsThrough(t *testing.T) {
	store := new(mocks.MockDatasetStore)
	cache := mocks.NewMockFacetCache()
	cache.GetErr = errors.New("redis down")
	agg := NewFacetAggregator(FacetAggregatorConfig{Store: store, Cache: cache, Logger: discardLogger()})

	store.On("FacetCounts", mock.Anything, mock.Anything, mock.Anything).Return([]domain.FacetCount{}, nil)

	facets, err := agg.Aggregate(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, domain.EmptyFacets(), facets)
}

func TestFacetAggregator_InvalidateDuringComputeIsNotCached(t *testing.T) {
	store := new(mocks.MockDatasetStore)
	cache := mocks.NewMockFacetCache()
	agg := NewFacetAggregator(FacetAggregatorConfig{Store: store, Cache: cache, Logger: discardLogger()})

	store.On("FacetCounts", mock.Anything, mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { require.NoError(t, cache.Invalidate(context.Background())) }).
		Return([]domain.FacetCount{{Dimension: domain.FacetBRC, Value: "JBEI", Count: 1}}, nil).Once()
	store.On("FacetCounts", mock.Anything, mock.Anything, mock.Anything).
		Return([]domain.FacetCount{
			{Dimension: domain.FacetBRC, Value: "JBEI", Count: 1},
			{Dimension: domain.FacetBRC, Value: "CABBI", Count: 1},
		}, nil).Once()

	_, err := agg.Aggregate(context.Background(), nil)
	require.NoError(t, err)

	facets, err := agg.Aggregate(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, facets[domain.FacetBRC], 2)
	store.AssertNumberOfCalls(t, "FacetCounts", 2)
}

func TestFacetAggregator_RedisCacheStaysConsistentWithWrites(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	ctx := context.Background()
	cache := redisadapter.NewFacetCache(client, time.Minute)
	mem := memory.NewDatasetStore()
	require.NoError(t, mem.Upsert(ctx, testDataset("JBEI", "1")))

	// A contribution lands after the counts are read but before they are cached
	store := &writeDuringFacets{DatasetStore: mem, after: func() {
		require.NoError(t, mem.Upsert(ctx, testDataset("CABBI", "2")))
		require.NoError(t, cache.Invalidate(ctx))
	}}
	agg := NewFacetAggregator(FacetAggregatorConfig{Store: store, Cache: cache, Logger: discardLogger()})

	first, err := agg.Aggregate(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, first[domain.FacetBRC], 1)

	second, err := agg.Aggregate(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, []domain.FacetValue{
		{Value: "CABBI", Count: 1},
		{Value: "JBEI", Count: 1},
	}, second[domain.FacetBRC])
}

// writeDuringFacets runs after once, right after the first FacetCounts
type writeDuringFacets struct {
	driven.DatasetStore
	after func()
	done  bool
}

func (s *writeDuringFacets) FacetCounts(ctx context.Context, where domain.Predicate, topics []domain.TopicQuery) ([]domain.FacetCount, error) {
	rows, err := s.DatasetStore.FacetCounts(ctx, where, topics)
	if !s.done {
		s.done = true
		s.after()
	}
	return rows, err
}

func testCompilerTopics() []domain.TopicQuery {
	return []domain.TopicQuery{
		{Name: "Genomics", Query: domain.TextQuery{Expr: "genome", Target: domain.TextTargetDocument}},
	}
}
