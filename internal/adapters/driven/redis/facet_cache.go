// Package redis provides Redis-backed facet caching and distributed locking.
package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bioenergy-org/catalog-core/internal/core/domain"
	"github.com/bioenergy-org/catalog-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.FacetCache = (*FacetCache)(nil)

const (
	keyPrefix        = "catalog:"
	facetPrefix      = keyPrefix + "facets:"
	facetGenerationK = facetPrefix + "generation"

	// DefaultFacetTTL bounds staleness when writes bypass Invalidate
	DefaultFacetTTL = 10 * time.Minute
)

// FacetCache caches facet results per predicate. Entries are namespaced by a
// generation counter; Invalidate bumps it so every older entry is orphaned
// and left to expire.
type FacetCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewFacetCache creates a facet cache. A non-positive ttl uses DefaultFacetTTL.
func NewFacetCache(client redis.Cmdable, ttl time.Duration) *FacetCache {
	if ttl <= 0 {
		ttl = DefaultFacetTTL
	}
	return &FacetCache{client: client, ttl: ttl}
}

// Get returns the cached facets for key in the current generation. The
// returned slot is pinned to that generation.
func (c *FacetCache) Get(ctx context.Context, key string) (domain.Facets, string, bool, error) {
	slot, err := c.entryKey(ctx, key)
	if err != nil {
		return nil, "", false, err
	}
	data, err := c.client.Get(ctx, slot).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, slot, false, nil
	}
	if err != nil {
		return nil, "", false, fmt.Errorf("get facets: %w", err)
	}

	var facets domain.Facets
	if err := json.Unmarshal(data, &facets); err != nil {
		return nil, "", false, fmt.Errorf("decode facets: %w", err)
	}
	return facets, slot, true, nil
}

// Set stores facets in slot. A slot from an older generation is written
// but never read again.
func (c *FacetCache) Set(ctx context.Context, slot string, facets domain.Facets) error {
	if !strings.HasPrefix(slot, facetPrefix) {
		return fmt.Errorf("invalid facet slot %q", slot)
	}
	data, err := json.Marshal(facets)
	if err != nil {
		return fmt.Errorf("encode facets: %w", err)
	}
	if err := c.client.Set(ctx, slot, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("set facets: %w", err)
	}
	return nil
}

// Invalidate starts a new generation
func (c *FacetCache) Invalidate(ctx context.Context) error {
	if err := c.client.Incr(ctx, facetGenerationK).Err(); err != nil {
		return fmt.Errorf("bump facet generation: %w", err)
	}
	return nil
}

func (c *FacetCache) entryKey(ctx context.Context, key string) (string, error) {
	gen, err := c.client.Get(ctx, facetGenerationK).Result()
	if errors.Is(err, redis.Nil) {
		gen = "0"
	} else if err != nil {
		return "", fmt.Errorf("get facet generation: %w", err)
	}
	sum := sha256.Sum256([]byte(key))
	return facetPrefix + gen + ":" + hex.EncodeToString(sum[:]), nil
}
