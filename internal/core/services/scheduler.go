package services

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/bioenergy-org/catalog-core/internal/core/domain"
	"github.com/bioenergy-org/catalog-core/internal/core/ports/driving"
)

// ImportScheduler re-runs the feed import on a fixed interval.
// The importer's distributed lock keeps concurrent instances from
// importing at the same time; a busy cycle is skipped.
type ImportScheduler struct {
	importer driving.ImportService
	logger   *slog.Logger
	interval time.Duration

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// ImportSchedulerConfig holds configuration for the import scheduler.
type ImportSchedulerConfig struct {
	Importer driving.ImportService
	Logger   *slog.Logger
	Interval time.Duration // default: 24h
}

// NewImportScheduler creates a new import scheduler.
func NewImportScheduler(cfg ImportSchedulerConfig) *ImportScheduler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	interval := cfg.Interval
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &ImportScheduler{
		importer: cfg.Importer,
		logger:   logger,
		interval: interval,
	}
}

// Start begins the scheduler loop, importing once immediately.
// It runs until Stop is called or ctx is cancelled.
func (s *ImportScheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})

	s.logger.Info("import scheduler starting", "interval", s.interval)
	go s.run(ctx, s.stopCh, s.doneCh)
}

// Stop stops the loop and waits for an in-flight import to finish.
func (s *ImportScheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	close(s.stopCh)
	done := s.doneCh
	s.running = false
	s.mu.Unlock()

	<-done
	s.logger.Info("import scheduler stopped")
}

func (s *ImportScheduler) run(ctx context.Context, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.runOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *ImportScheduler) runOnce(ctx context.Context) {
	summary, err := s.importer.ImportFeeds(ctx)
	switch {
	case errors.Is(err, domain.ErrImportInProgress):
		s.logger.Debug("import running on another instance, skipping cycle")
	case err != nil:
		s.logger.Error("scheduled import failed", "error", err)
	default:
		s.logger.Info("scheduled import completed", "upserted", summary.Upserted())
	}
}
