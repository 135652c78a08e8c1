package driven

import (
	"context"

	"github.com/bioenergy-org/catalog-core/internal/core/domain"
)

// SequenceSearcher runs a sequence similarity search against an external
// registry (e.g. ICE BLAST). Hits are later matched against local datasets.
type SequenceSearcher interface {
	// Name identifies the searcher in logs
	Name() string

	// SearchSequence returns the registry entries similar to sequence
	SearchSequence(ctx context.Context, sequence string) ([]domain.SequenceHit, error)
}
