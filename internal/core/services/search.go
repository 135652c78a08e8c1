package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/bioenergy-org/catalog-core/internal/core/domain"
	"github.com/bioenergy-org/catalog-core/internal/core/ports/driven"
	"github.com/bioenergy-org/catalog-core/internal/core/ports/driving"
	"github.com/bioenergy-org/catalog-core/internal/query"
)

// Ensure searchService implements SearchService
var _ driving.SearchService = (*searchService)(nil)

// searchService implements the SearchService interface
type searchService struct {
	store    driven.DatasetStore
	compiler *query.Compiler
	facets   driving.FacetService
	scope    domain.Predicate
	searches []driven.SequenceSearcher
	logger   *slog.Logger
}

// SearchServiceConfig holds configuration for the search service.
type SearchServiceConfig struct {
	Store     driven.DatasetStore
	Compiler  *query.Compiler
	Facets    driving.FacetService      // Optional: nil disables facets
	Scope     domain.Predicate          // visibility scope ANDed into every query
	Sequences []driven.SequenceSearcher // Optional: registries for sequence searches
	Logger    *slog.Logger
}

// NewSearchService creates a new SearchService
func NewSearchService(cfg SearchServiceConfig) driving.SearchService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &searchService{
		store:    cfg.Store,
		compiler: cfg.Compiler,
		facets:   cfg.Facets,
		scope:    cfg.Scope,
		searches: cfg.Sequences,
		logger:   logger,
	}
}

// Search compiles the request into one predicate and runs the count, page
// and facet queries concurrently against it.
func (s *searchService) Search(ctx context.Context, req domain.SearchRequest) (*domain.SearchResult, error) {
	if strings.TrimSpace(req.Sequence) != "" {
		return s.sequenceSearch(ctx, req)
	}

	where, err := s.compile(req)
	if err != nil {
		return nil, err
	}
	page := domain.NormalizePage(req.Page, req.Rows)

	var (
		total    int
		datasets []*domain.Dataset
		facets   domain.Facets
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.store.Count(gctx, where)
		if err != nil {
			return fmt.Errorf("count datasets: %w", err)
		}
		total = n
		return nil
	})
	g.Go(func() error {
		ds, err := s.store.Find(gctx, where, page)
		if err != nil {
			return fmt.Errorf("find datasets: %w", err)
		}
		datasets = ds
		return nil
	})
	if s.facets != nil && !req.SkipFacets {
		g.Go(func() error {
			f, err := s.facets.Aggregate(gctx, where)
			if err != nil {
				// Facets are advisory; the result is still served without them.
				s.logger.Warn("facet aggregation failed",
					"predicate", domain.PredicateString(where),
					"error", err)
				f = domain.EmptyFacets()
			}
			facets = f
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.logger.Error("search failed",
			"predicate", domain.PredicateString(where),
			"error", err)
		return nil, err
	}

	items := make([]map[string]any, 0, len(datasets))
	for _, ds := range datasets {
		items = append(items, ds.ClientJSON())
	}

	return &domain.SearchResult{
		Items:        items,
		TotalResults: total,
		TotalPages:   domain.TotalPages(total, page.Size),
		Query: domain.SearchEcho{
			Query:   req.Query,
			Filters: req.Filters,
			Title:   req.Title,
			Page:    page.Number,
			Rows:    page.Size,
		},
		Facets: facets,
	}, nil
}

// compile builds the predicate a request selects: the free-text match, the
// filter fragments and the visibility scope, ANDed.
func (s *searchService) compile(req domain.SearchRequest) (domain.Predicate, error) {
	var parts []domain.Predicate
	if tq, ok := query.Tokenize(req.Query); ok {
		if err := query.ValidateTextQuery(tq); err != nil {
			return nil, err
		}
		parts = append(parts, domain.TextMatch{Query: tq})
	}
	parts = append(parts, s.compiler.Compile(req.Filters)...)
	parts = append(parts, query.TitleContains(req.Title), s.scope)
	return domain.Conjoin(parts...), nil
}
