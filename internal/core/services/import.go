package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bioenergy-org/catalog-core/internal/core/domain"
	"github.com/bioenergy-org/catalog-core/internal/core/ports/driven"
	"github.com/bioenergy-org/catalog-core/internal/core/ports/driving"
)

// ImportLockName is the distributed lock held for the duration of an import.
const ImportLockName = "datafeed-import"

// Feed rejection reasons
const (
	rejectMissingURL     = "missing URL"
	rejectRetrieval      = "retrieval failed"
	rejectMalformedJSON  = "malformed JSON"
	rejectUnknownVersion = "unsupported schema version"
)

// Ensure importService implements ImportService
var _ driving.ImportService = (*importService)(nil)

type importService struct {
	store   driven.DatasetStore
	source  driven.FeedSource
	feeds   []domain.Feed
	schemas domain.SchemaRegistry
	lock    driven.DistributedLock
	cache   driven.FacetCache
	logger  *slog.Logger
	lockTTL time.Duration
}

// ImportServiceConfig holds configuration for the feed importer.
type ImportServiceConfig struct {
	Store   driven.DatasetStore
	Source  driven.FeedSource
	Feeds   []domain.Feed
	Schemas domain.SchemaRegistry
	Lock    driven.DistributedLock // Optional: serializes imports across instances
	Cache   driven.FacetCache      // Optional: invalidated after an import
	Logger  *slog.Logger
	LockTTL time.Duration // default: 30m
}

// NewImportService creates a new ImportService
func NewImportService(cfg ImportServiceConfig) driving.ImportService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	lockTTL := cfg.LockTTL
	if lockTTL == 0 {
		lockTTL = 30 * time.Minute
	}
	return &importService{
		store:   cfg.Store,
		source:  cfg.Source,
		feeds:   cfg.Feeds,
		schemas: cfg.Schemas,
		lock:    cfg.Lock,
		cache:   cfg.Cache,
		logger:  logger,
		lockTTL: lockTTL,
	}
}

// ImportFeeds fetches every configured feed and upserts its valid records.
// A rejected feed is reported and skipped; the run continues with the next one.
func (s *importService) ImportFeeds(ctx context.Context) (*domain.ImportSummary, error) {
	if len(s.feeds) == 0 {
		s.logger.Warn("no data feeds configured, nothing to import")
		return &domain.ImportSummary{Feeds: []domain.FeedReport{}}, nil
	}
	if s.lock != nil {
		acquired, err := s.lock.Acquire(ctx, ImportLockName, s.lockTTL)
		if err != nil {
			return nil, fmt.Errorf("acquire import lock: %w", err)
		}
		if !acquired {
			return nil, domain.ErrImportInProgress
		}
		defer func() {
			if err := s.lock.Release(context.Background(), ImportLockName); err != nil {
				s.logger.Warn("failed to release import lock", "error", err)
			}
		}()
	}

	summary := &domain.ImportSummary{Feeds: make([]domain.FeedReport, 0, len(s.feeds))}
	err := s.importAll(ctx, summary)

	// Facets go stale as soon as any feed is written, even if a later one fails
	if s.cache != nil && summary.Upserted() > 0 {
		if err := s.cache.Invalidate(context.WithoutCancel(ctx)); err != nil {
			s.logger.Warn("facet cache invalidation failed", "error", err)
		}
	}
	if err != nil {
		return summary, err
	}

	s.logger.Info("data import finished", "feeds", len(summary.Feeds), "upserted", summary.Upserted())
	return summary, nil
}

func (s *importService) importAll(ctx context.Context, summary *domain.ImportSummary) error {
	for i, feed := range s.feeds {
		if err := ctx.Err(); err != nil {
			return err
		}
		// Refresh the lease so a long run keeps the lock until its last feed
		if s.lock != nil && i > 0 {
			if err := s.lock.Extend(ctx, ImportLockName, s.lockTTL); err != nil {
				return fmt.Errorf("extend import lock: %w", err)
			}
		}
		report, err := s.importFeed(ctx, feed)
		if err != nil {
			return err
		}
		summary.Feeds = append(summary.Feeds, report)
	}
	return nil
}

// importFeed returns an error only when the store fails
func (s *importService) importFeed(ctx context.Context, feed domain.Feed) (domain.FeedReport, error) {
	report := domain.FeedReport{Feed: feed}
	log := s.logger.With("feed", feed.Name, "url", feed.URL)

	if strings.TrimSpace(feed.URL) == "" {
		report.Rejected = rejectMissingURL
		log.Error("data feed rejected", "reason", report.Rejected)
		return report, nil
	}

	body, err := s.source.Fetch(ctx, feed)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return report, err
		}
		report.Rejected = rejectRetrieval
		log.Error("data feed rejected", "reason", report.Rejected, "error", err)
		return report, nil
	}

	version, records, err := decodeFeed(body)
	if err != nil {
		report.Rejected = rejectMalformedJSON
		log.Error("data feed rejected", "reason", report.Rejected, "error", err)
		return report, nil
	}
	version = s.schemas.Resolve(version)
	report.SchemaVersion = version
	if !s.schemas.Known(version) {
		report.Rejected = rejectUnknownVersion
		log.Error("data feed rejected", "reason", report.Rejected, "schema_version", version)
		return report, nil
	}

	batch := make([]*domain.Dataset, 0, len(records))
	for i, raw := range records {
		var doc map[string]any
		if err := json.Unmarshal(raw, &doc); err != nil || doc == nil {
			report.Counts.Invalid++
			report.InvalidRecords = append(report.InvalidRecords, fmt.Sprintf("record (%d)", i+1))
			continue
		}
		ds, err := buildDataset(doc, version)
		if err != nil {
			report.Counts.Invalid++
			identifier, _ := doc["identifier"].(string)
			report.InvalidRecords = append(report.InvalidRecords, fmt.Sprintf("%s (%d)", identifier, i+1))
			log.Warn("data set failed validation", "index", i+1, "identifier", identifier, "error", err)
			continue
		}
		report.Counts.Valid++
		batch = append(batch, ds)
	}

	if len(batch) > 0 {
		if err := s.store.UpsertBatch(ctx, batch); err != nil {
			return report, fmt.Errorf("upsert feed %s: %w", feed.Name, err)
		}
	}

	log.Info("data feed imported",
		"schema_version", version,
		"valid", report.Counts.Valid,
		"invalid", report.Counts.Invalid)
	return report, nil
}

// feedEnvelope is the versioned feed format. Older feeds are a bare array.
type feedEnvelope struct {
	SchemaVersion string            `json:"schema_version"`
	Datasets      []json.RawMessage `json:"datasets"`
}

func decodeFeed(body []byte) (string, []json.RawMessage, error) {
	trimmed := strings.TrimSpace(string(body))
	if strings.HasPrefix(trimmed, "[") {
		var records []json.RawMessage
		if err := json.Unmarshal(body, &records); err != nil {
			return "", nil, err
		}
		return "", records, nil
	}
	var env feedEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return "", nil, err
	}
	if env.Datasets == nil {
		return "", nil, errors.New("feed has no datasets array")
	}
	return env.SchemaVersion, env.Datasets, nil
}
