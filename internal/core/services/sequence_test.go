package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bioenergy-org/catalog-core/internal/adapters/driven/memory"
	"github.com/bioenergy-org/catalog-core/internal/core/domain"
	"github.com/bioenergy-org/catalog-core/internal/core/ports/driven"
	"github.com/bioenergy-org/catalog-core/internal/core/ports/driven/mocks"
	"github.com/bioenergy-org/catalog-core/internal/core/ports/driving"
)

func hit(brc, identifier, title string) domain.SequenceHit {
	return domain.SequenceHit{
		BRC:        brc,
		Identifier: identifier,
		Document:   map[string]any{"brc": brc, "identifier": identifier, "title": title},
	}
}

func newSequenceService(t *testing.T, searchers ...driven.SequenceSearcher) driving.SearchService {
	t.Helper()
	ctx := context.Background()
	store := memory.NewDatasetStore()
	require.NoError(t, store.Upsert(ctx, testDataset("JBEI", "JPUB_1")))
	require.NoError(t, store.Upsert(ctx, testDataset("JBEI", "JPUB_2")))
	require.NoError(t, store.Upsert(ctx, testDataset("GLBRC", "G_1")))

	legacy := testDataset("JBEI", "JPUB_old")
	legacy.SchemaVersion = "0.0.8"
	require.NoError(t, store.Upsert(ctx, legacy))

	return NewSearchService(SearchServiceConfig{
		Store:     store,
		Compiler:  testCompiler(),
		Scope:     testSchemas().Scope(),
		Sequences: searchers,
		Logger:    discardLogger(),
	})
}

func TestSequenceSearch_IntersectsWithLocalDatasets(t *testing.T) {
	ice := mocks.NewMockSequenceSearcher("ice", []domain.SequenceHit{
		hit("JBEI", "JPUB_2", "second"),
		hit("JBEI", "JPUB_missing", "not in catalog"),
		hit("JBEI", "JPUB_old", "unsupported schema"),
		hit("JBEI", "JPUB_1", "first"),
		hit("JBEI", "JPUB_2", "duplicate"),
	}, nil)
	other := mocks.NewMockSequenceSearcher("other", []domain.SequenceHit{
		hit("GLBRC", "G_1", "glbrc"),
		hit("JBEI", "G_1", "wrong provider"),
	}, nil)
	svc := newSequenceService(t, ice, other)

	result, err := svc.Search(context.Background(), domain.SearchRequest{
		Query:    "ignored",
		Sequence: " atg cgt\n",
	})
	require.NoError(t, err)

	uids := make([]any, len(result.Items))
	for i, item := range result.Items {
		uids[i] = item["uid"]
	}
	assert.Equal(t, []any{"JBEI_JPUB_2", "JBEI_JPUB_1", "GLBRC_G_1"}, uids)
	assert.Equal(t, "second", result.Items[0]["title"])
	assert.Equal(t, 3, result.TotalResults)
	assert.Equal(t, 1, result.TotalPages)
	assert.Equal(t, "ATGCGT", result.Query.Sequence)
	assert.Nil(t, result.Facets)

	assert.Equal(t, []string{"ATGCGT"}, ice.Sequences())
	assert.Equal(t, []string{"ATGCGT"}, other.Sequences())
}

func TestSequenceSearch_Pages(t *testing.T) {
	ice := mocks.NewMockSequenceSearcher("ice", []domain.SequenceHit{
		hit("JBEI", "JPUB_1", "first"),
		hit("JBEI", "JPUB_2", "second"),
	}, nil)
	svc := newSequenceService(t, ice)

	result, err := svc.Search(context.Background(), domain.SearchRequest{Sequence: "ATG", Page: 2, Rows: 1})
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "JBEI_JPUB_2", result.Items[0]["uid"])
	assert.Equal(t, 2, result.TotalPages)

	result, err = svc.Search(context.Background(), domain.SearchRequest{Sequence: "ATG", Page: 5, Rows: 1})
	require.NoError(t, err)
	assert.Empty(t, result.Items)
	assert.NotNil(t, result.Items)
	assert.Equal(t, 2, result.TotalResults)
}

func TestSequenceSearch_RegistryFailureFailsRequest(t *testing.T) {
	ok := mocks.NewMockSequenceSearcher("ok", []domain.SequenceHit{hit("JBEI", "JPUB_1", "first")}, nil)
	down := mocks.NewMockSequenceSearcher("ice", nil, errors.New("502 bad gateway"))
	svc := newSequenceService(t, ok, down)

	result, err := svc.Search(context.Background(), domain.SearchRequest{Sequence: "ATG"})
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "ice sequence search")
}

func TestSequenceSearch_InvalidSequence(t *testing.T) {
	ice := mocks.NewMockSequenceSearcher("ice", nil, nil)
	svc := newSequenceService(t, ice)

	_, err := svc.Search(context.Background(), domain.SearchRequest{Sequence: ">seq1 ATG"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, ice.Sequences())
}

func TestSequenceSearch_NoRegistriesIsEmpty(t *testing.T) {
	svc := newSequenceService(t)

	result, err := svc.Search(context.Background(), domain.SearchRequest{Sequence: "ATG"})
	require.NoError(t, err)
	assert.Zero(t, result.TotalResults)
	assert.NotNil(t, result.Items)
}

func TestSearch_TitleSubstring(t *testing.T) {
	store := new(mocks.MockDatasetStore)
	svc := newTestSearchService(store, nil)

	var counted string
	store.On("Count", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { counted = domain.PredicateString(args.Get(1).(domain.Predicate)) }).
		Return(0, nil)
	store.On("Find", mock.Anything, mock.Anything, mock.Anything).Return([]*domain.Dataset{}, nil)

	result, err := svc.Search(context.Background(), domain.SearchRequest{Title: "  Maize "})
	require.NoError(t, err)
	assert.Equal(t, `and(contains(title, ["Maize"]), schema_version(["0.1.0"]))`, counted)
	assert.Equal(t, "  Maize ", result.Query.Title)
}
