package services

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/bioenergy-org/catalog-core/internal/core/domain"
	"github.com/bioenergy-org/catalog-core/internal/query"
)

// sequenceSearch queries every registry concurrently and keeps the hits
// that correspond to a visible local dataset, in registry order.
func (s *searchService) sequenceSearch(ctx context.Context, req domain.SearchRequest) (*domain.SearchResult, error) {
	seq, ok := domain.NormalizeSequence(req.Sequence)
	if !ok {
		return nil, fmt.Errorf("%w: sequence may only contain residue letters", domain.ErrInvalidInput)
	}
	page := domain.NormalizePage(req.Page, req.Rows)

	results := make([][]domain.SequenceHit, len(s.searches))
	g, gctx := errgroup.WithContext(ctx)
	for i, searcher := range s.searches {
		g.Go(func() error {
			hits, err := searcher.SearchSequence(gctx, seq)
			if err != nil {
				return fmt.Errorf("%s sequence search: %w", searcher.Name(), err)
			}
			results[i] = hits
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.Error("sequence search failed", "error", err)
		return nil, err
	}

	var hits []domain.SequenceHit
	for _, r := range results {
		hits = append(hits, r...)
	}
	local, err := s.localMatches(ctx, hits)
	if err != nil {
		s.logger.Error("sequence search failed", "error", err)
		return nil, err
	}

	items := make([]map[string]any, 0, len(local))
	seen := make(map[string]bool, len(local))
	for _, h := range hits {
		uid := domain.DatasetUID(h.BRC, h.Identifier)
		if !local[uid] || seen[uid] {
			continue
		}
		seen[uid] = true
		doc := make(map[string]any, len(h.Document)+1)
		for k, v := range h.Document {
			doc[k] = v
		}
		doc["uid"] = uid
		items = append(items, doc)
	}

	total := len(items)
	from := min(page.Offset(), total)
	to := min(from+page.Size, total)

	return &domain.SearchResult{
		Items:        items[from:to],
		TotalResults: total,
		TotalPages:   domain.TotalPages(total, page.Size),
		Query: domain.SearchEcho{
			Query:    req.Query,
			Filters:  req.Filters,
			Sequence: seq,
			Page:     page.Number,
			Rows:     page.Size,
		},
	}, nil
}

// localMatches returns the UIDs of visible datasets that hits refer to,
// with one store query per provider.
func (s *searchService) localMatches(ctx context.Context, hits []domain.SequenceHit) (map[string]bool, error) {
	byBRC := make(map[string][]string)
	for _, h := range hits {
		if h.BRC == "" || h.Identifier == "" {
			continue
		}
		byBRC[h.BRC] = append(byBRC[h.BRC], h.Identifier)
	}
	brcs := make([]string, 0, len(byBRC))
	for brc := range byBRC {
		brcs = append(brcs, brc)
	}
	sort.Strings(brcs)

	out := make(map[string]bool)
	for _, brc := range brcs {
		where := domain.Conjoin(
			domain.FieldIn{Field: query.FieldBRC, Values: []string{brc}},
			domain.FieldIn{Field: query.FieldIdentifier, Values: byBRC[brc]},
			s.scope,
		)
		datasets, err := s.store.List(ctx, where)
		if err != nil {
			return nil, fmt.Errorf("match %s datasets: %w", brc, err)
		}
		for _, ds := range datasets {
			out[domain.DatasetUID(brc, ds.StringField("identifier"))] = true
		}
	}
	return out, nil
}
