package driving

import (
	"context"

	"github.com/bioenergy-org/catalog-core/internal/core/domain"
)

// DatasetService provides access to individual datasets
type DatasetService interface {
	// Get retrieves a visible dataset by UID
	Get(ctx context.Context, uid string) (*domain.Dataset, error)

	// ListPublished returns visible datasets that carry a citation
	ListPublished(ctx context.Context) ([]*domain.Dataset, error)

	// Contribute stores a submitted dataset document
	Contribute(ctx context.Context, req ContributeRequest) (*domain.Dataset, error)
}

// ContributeRequest is a submitted dataset
type ContributeRequest struct {
	Dataset       map[string]any `json:"dataset"`
	SchemaVersion string         `json:"schema_version,omitempty"`
}
