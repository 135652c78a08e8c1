// Package feeds fetches remote dataset feeds over HTTP.
package feeds

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bioenergy-org/catalog-core/internal/core/domain"
	"github.com/bioenergy-org/catalog-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.FeedSource = (*HTTPSource)(nil)

// DefaultMaxBytes caps the size of a single feed body
const DefaultMaxBytes = 256 << 20

// HTTPSource fetches feeds with GET, retrying server errors.
type HTTPSource struct {
	httpClient *http.Client
	maxRetries int
	maxBytes   int64
	backoff    time.Duration
}

// Config holds HTTP feed source configuration.
type Config struct {
	Timeout    time.Duration // default: 60s
	MaxRetries int           // default: 2
	MaxBytes   int64         // default: DefaultMaxBytes
}

// NewHTTPSource creates a new HTTPSource.
func NewHTTPSource(cfg Config) *HTTPSource {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	} else if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 2
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = DefaultMaxBytes
	}
	return &HTTPSource{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		maxRetries: cfg.MaxRetries,
		maxBytes:   cfg.MaxBytes,
		backoff:    time.Second,
	}
}

// Fetch returns the body of the feed. Non-2xx responses are errors.
func (s *HTTPSource) Fetch(ctx context.Context, feed domain.Feed) ([]byte, error) {
	var resp *http.Response
	for attempt := 0; ; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, feed.URL, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err = s.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", feed.Name, err)
		}
		if resp.StatusCode < 500 || attempt >= s.maxRetries {
			break
		}

		// Server error - retry with linear backoff
		resp.Body.Close()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(attempt+1) * s.backoff):
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", feed.Name, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", feed.Name, err)
	}
	if int64(len(body)) > s.maxBytes {
		return nil, fmt.Errorf("fetch %s: body exceeds %d bytes", feed.Name, s.maxBytes)
	}
	return body, nil
}
