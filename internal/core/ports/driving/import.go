package driving

import (
	"context"

	"github.com/bioenergy-org/catalog-core/internal/core/domain"
)

// ImportService ingests the configured data feeds
type ImportService interface {
	// ImportFeeds fetches every feed and upserts its valid records
	ImportFeeds(ctx context.Context) (*domain.ImportSummary, error)
}
