package driven

import (
	"context"

	"github.com/bioenergy-org/catalog-core/internal/core/domain"
)

// FeedSource retrieves the raw body of a data feed
type FeedSource interface {
	Fetch(ctx context.Context, feed domain.Feed) ([]byte, error)
}
