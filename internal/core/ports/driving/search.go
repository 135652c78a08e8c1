package driving

import (
	"context"

	"github.com/bioenergy-org/catalog-core/internal/core/domain"
)

// SearchService handles catalog search
type SearchService interface {
	// Search runs a filtered, paginated search with facets unless suppressed
	Search(ctx context.Context, req domain.SearchRequest) (*domain.SearchResult, error)
}

// FacetService computes facet breakdowns
type FacetService interface {
	// Aggregate computes facets over datasets matching where
	Aggregate(ctx context.Context, where domain.Predicate) (domain.Facets, error)
}
