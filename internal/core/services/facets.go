package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bioenergy-org/catalog-core/internal/core/domain"
	"github.com/bioenergy-org/catalog-core/internal/core/ports/driven"
	"github.com/bioenergy-org/catalog-core/internal/core/ports/driving"
)

// Ensure facetAggregator implements FacetService
var _ driving.FacetService = (*facetAggregator)(nil)

// facetAggregator computes facet breakdowns over a filtered set.
// The store does the counting; grouping and ordering happen here.
type facetAggregator struct {
	store  driven.DatasetStore
	topics []domain.TopicQuery
	cache  driven.FacetCache
	logger *slog.Logger
}

// FacetAggregatorConfig holds configuration for the facet aggregator.
type FacetAggregatorConfig struct {
	Store  driven.DatasetStore
	Topics []domain.TopicQuery // per-category text queries for the topic dimension
	Cache  driven.FacetCache   // Optional
	Logger *slog.Logger
}

// NewFacetAggregator creates a new FacetService
func NewFacetAggregator(cfg FacetAggregatorConfig) driving.FacetService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &facetAggregator{
		store:  cfg.Store,
		topics: cfg.Topics,
		cache:  cfg.Cache,
		logger: logger,
	}
}

// Aggregate computes facets over datasets matching where.
// Every dimension is present in the result, empty when no values.
func (a *facetAggregator) Aggregate(ctx context.Context, where domain.Predicate) (domain.Facets, error) {
	var slot string
	if a.cache != nil {
		facets, s, ok, err := a.cache.Get(ctx, domain.PredicateString(where))
		switch {
		case err != nil:
			a.logger.Warn("facet cache read failed", "error", err)
		case ok:
			return facets, nil
		default:
			slot = s
		}
	}

	rows, err := a.store.FacetCounts(ctx, where, a.topics)
	if err != nil {
		return nil, fmt.Errorf("facet counts: %w", err)
	}
	facets := domain.GroupFacets(rows)

	if slot != "" {
		if err := a.cache.Set(ctx, slot, facets); err != nil {
			a.logger.Warn("facet cache write failed", "error", err)
		}
	}
	return facets, nil
}
