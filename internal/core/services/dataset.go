package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bioenergy-org/catalog-core/internal/core/domain"
	"github.com/bioenergy-org/catalog-core/internal/core/ports/driven"
	"github.com/bioenergy-org/catalog-core/internal/core/ports/driving"
	"github.com/bioenergy-org/catalog-core/internal/query"
)

// Ensure datasetService implements DatasetService
var _ driving.DatasetService = (*datasetService)(nil)

type datasetService struct {
	store   driven.DatasetStore
	schemas domain.SchemaRegistry
	cache   driven.FacetCache
	logger  *slog.Logger
}

// DatasetServiceConfig holds configuration for the dataset service.
type DatasetServiceConfig struct {
	Store   driven.DatasetStore
	Schemas domain.SchemaRegistry
	Cache   driven.FacetCache // Optional: invalidated after contributions
	Logger  *slog.Logger
}

// NewDatasetService creates a new DatasetService
func NewDatasetService(cfg DatasetServiceConfig) driving.DatasetService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &datasetService{
		store:   cfg.Store,
		schemas: cfg.Schemas,
		cache:   cfg.Cache,
		logger:  logger,
	}
}

// Get retrieves a visible dataset by UID
func (s *datasetService) Get(ctx context.Context, uid string) (*domain.Dataset, error) {
	if strings.TrimSpace(uid) == "" {
		return nil, domain.ErrNotFound
	}
	return s.store.Get(ctx, uid, s.schemas.Scope())
}

// ListPublished returns visible datasets that carry a bibliographic citation
func (s *datasetService) ListPublished(ctx context.Context) ([]*domain.Dataset, error) {
	datasets, err := s.store.List(ctx, domain.Conjoin(query.Published(), s.schemas.Scope()))
	if err != nil {
		return nil, fmt.Errorf("list published: %w", err)
	}
	return datasets, nil
}

// Contribute stores a submitted dataset, replacing any record with the same UID
func (s *datasetService) Contribute(ctx context.Context, req driving.ContributeRequest) (*domain.Dataset, error) {
	ds, err := s.newDataset(req.Dataset, req.SchemaVersion)
	if err != nil {
		return nil, err
	}
	if err := s.store.Upsert(ctx, ds); err != nil {
		return nil, fmt.Errorf("upsert dataset %s: %w", ds.UID, err)
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.logger.Warn("facet cache invalidation failed", "error", err)
		}
	}
	s.logger.Info("dataset contributed", "uid", ds.UID, "schema_version", ds.SchemaVersion)
	return ds, nil
}

func (s *datasetService) newDataset(doc map[string]any, version string) (*domain.Dataset, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: dataset is required", domain.ErrInvalidInput)
	}
	version = s.schemas.Resolve(version)
	if !s.schemas.Known(version) {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedSchema, version)
	}
	return buildDataset(doc, version)
}

// buildDataset keys a document by its provider and identifier
func buildDataset(doc map[string]any, version string) (*domain.Dataset, error) {
	brc, _ := doc["brc"].(string)
	identifier, _ := doc["identifier"].(string)
	brc, identifier = strings.TrimSpace(brc), strings.TrimSpace(identifier)
	if brc == "" || identifier == "" {
		return nil, fmt.Errorf("%w: brc and identifier are required", domain.ErrInvalidInput)
	}
	now := time.Now()
	return &domain.Dataset{
		UID:           domain.DatasetUID(brc, identifier),
		SchemaVersion: version,
		Document:      doc,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}
