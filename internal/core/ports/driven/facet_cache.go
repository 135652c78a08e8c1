package driven

import (
	"context"

	"github.com/bioenergy-org/catalog-core/internal/core/domain"
)

// FacetCache stores computed facets keyed by the canonical predicate
type FacetCache interface {
	// Get returns cached facets. ok is false on a miss. slot names the entry
	// as of this read; facets computed after a miss are stored with Set(slot)
	// so an Invalidate in between orphans them instead of publishing them.
	Get(ctx context.Context, key string) (facets domain.Facets, slot string, ok bool, err error)

	// Set stores facets in a slot returned by Get
	Set(ctx context.Context, slot string, facets domain.Facets) error

	// Invalidate drops every cached entry (called after writes)
	Invalidate(ctx context.Context) error
}
