package driven

import (
	"context"

	"github.com/bioenergy-org/catalog-core/internal/core/domain"
)

// DatasetStore handles dataset persistence and querying (PostgreSQL JSONB).
// A nil predicate matches every record.
type DatasetStore interface {
	// Upsert creates or replaces the dataset with the same UID
	Upsert(ctx context.Context, ds *domain.Dataset) error

	// UpsertBatch upserts several datasets in one transaction
	UpsertBatch(ctx context.Context, datasets []*domain.Dataset) error

	// Get retrieves a dataset by UID among records matching scope.
	// Returns domain.ErrNotFound when absent.
	Get(ctx context.Context, uid string, scope domain.Predicate) (*domain.Dataset, error)

	// Find returns one page of matching datasets, newest document date first,
	// undated or unparseable dates last
	Find(ctx context.Context, where domain.Predicate, page domain.Page) ([]*domain.Dataset, error)

	// List returns every matching dataset in the same order as Find
	List(ctx context.Context, where domain.Predicate) ([]*domain.Dataset, error)

	// Count returns the number of matching datasets
	Count(ctx context.Context, where domain.Predicate) (int, error)

	// FacetCounts aggregates value counts per facet dimension over matching datasets
	FacetCounts(ctx context.Context, where domain.Predicate, topics []domain.TopicQuery) ([]domain.FacetCount, error)

	// Ping checks the store is reachable
	Ping(ctx context.Context) error
}
