// Package memory provides an in-process DatasetStore for development and tests.
// It evaluates the same predicate trees the PostgreSQL store lowers to SQL.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"sync"
	"time"

	"github.com/bioenergy-org/catalog-core/internal/core/domain"
	"github.com/bioenergy-org/catalog-core/internal/core/ports/driven"
	"github.com/bioenergy-org/catalog-core/internal/query"
)

// Verify interface compliance
var _ driven.DatasetStore = (*DatasetStore)(nil)

var datedPattern = regexp.MustCompile(`^[0-9]{4}`)

// record is a stored dataset with its precomputed search projections
type record struct {
	uid           string
	schemaVersion string
	raw           []byte
	doc           map[string]any
	lexemes       []string
	createdAt     time.Time
	updatedAt     time.Time
}

// text projects a document path to text; false when absent or null
func (r *record) text(f domain.Field) (string, bool) {
	if f.IsDocument() {
		return string(r.raw), true
	}
	v, ok := lookup(r.doc, f)
	if !ok {
		return "", false
	}
	return textOf(v), true
}

// sortDate is the date used for ordering, empty when undated
func (r *record) sortDate() string {
	s, ok := r.text(domain.Field{"date"})
	if !ok || !datedPattern.MatchString(s) {
		return ""
	}
	return s
}

// dataset decodes a fresh copy so callers cannot mutate stored state
func (r *record) dataset() (*domain.Dataset, error) {
	ds := &domain.Dataset{
		UID:           r.uid,
		SchemaVersion: r.schemaVersion,
		CreatedAt:     r.createdAt,
		UpdatedAt:     r.updatedAt,
	}
	if err := json.Unmarshal(r.raw, &ds.Document); err != nil {
		return nil, fmt.Errorf("decode dataset %s: %w", r.uid, err)
	}
	return ds, nil
}

// DatasetStore is an in-memory DatasetStore safe for concurrent use
type DatasetStore struct {
	mu      sync.RWMutex
	records map[string]*record
	now     func() time.Time
}

// NewDatasetStore creates an empty store
func NewDatasetStore() *DatasetStore {
	return &DatasetStore{
		records: make(map[string]*record),
		now:     time.Now,
	}
}

// Upsert creates or replaces a dataset by UID, preserving created_at
func (s *DatasetStore) Upsert(ctx context.Context, ds *domain.Dataset) error {
	return s.UpsertBatch(ctx, []*domain.Dataset{ds})
}

// UpsertBatch upserts all datasets or none
func (s *DatasetStore) UpsertBatch(ctx context.Context, datasets []*domain.Dataset) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	prepared := make([]*record, len(datasets))
	for i, ds := range datasets {
		raw, err := json.Marshal(ds.Document)
		if err != nil {
			return fmt.Errorf("encode dataset %s: %w", ds.UID, err)
		}
		var doc map[string]any
		if err := json.Unmarshal(raw, &doc); err != nil {
			return fmt.Errorf("encode dataset %s: %w", ds.UID, err)
		}
		prepared[i] = &record{
			uid:           ds.UID,
			schemaVersion: ds.SchemaVersion,
			raw:           raw,
			doc:           doc,
			lexemes:       query.Lexemes(marshal(doc)),
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for i, r := range prepared {
		r.createdAt, r.updatedAt = now, now
		if prev, ok := s.records[r.uid]; ok {
			r.createdAt = prev.createdAt
		}
		s.records[r.uid] = r
		datasets[i].CreatedAt, datasets[i].UpdatedAt = r.createdAt, r.updatedAt
	}
	return nil
}

// Get retrieves a dataset by UID within scope
func (s *DatasetStore) Get(ctx context.Context, uid string, scope domain.Predicate) (*domain.Dataset, error) {
	m, err := compile(scope)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	r, ok := s.records[uid]
	s.mu.RUnlock()
	if !ok || !m(r) {
		return nil, domain.ErrNotFound
	}
	return r.dataset()
}

// Find returns one page of matching datasets
func (s *DatasetStore) Find(ctx context.Context, where domain.Predicate, page domain.Page) ([]*domain.Dataset, error) {
	matched, err := s.match(ctx, where)
	if err != nil {
		return nil, err
	}
	start := page.Offset()
	if start >= len(matched) || page.Size <= 0 {
		return []*domain.Dataset{}, nil
	}
	end := start + page.Size
	if end > len(matched) {
		end = len(matched)
	}
	return decodeAll(matched[start:end])
}

// List returns every matching dataset
func (s *DatasetStore) List(ctx context.Context, where domain.Predicate) ([]*domain.Dataset, error) {
	matched, err := s.match(ctx, where)
	if err != nil {
		return nil, err
	}
	return decodeAll(matched)
}

// Count returns the number of matching datasets
func (s *DatasetStore) Count(ctx context.Context, where domain.Predicate) (int, error) {
	matched, err := s.match(ctx, where)
	if err != nil {
		return 0, err
	}
	return len(matched), nil
}

// Ping always succeeds
func (s *DatasetStore) Ping(ctx context.Context) error {
	return nil
}

// Len returns the number of stored datasets regardless of scope
func (s *DatasetStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// match returns matching records, newest date first, undated last, then by UID
func (s *DatasetStore) match(ctx context.Context, where domain.Predicate) ([]*record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m, err := compile(where)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	var out []*record
	for _, r := range s.records {
		if m(r) {
			out = append(out, r)
		}
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		di, dj := out[i].sortDate(), out[j].sortDate()
		if di != dj {
			if di == "" || dj == "" {
				return dj == ""
			}
			return di > dj
		}
		return out[i].uid < out[j].uid
	})
	return out, nil
}

func decodeAll(records []*record) ([]*domain.Dataset, error) {
	out := make([]*domain.Dataset, 0, len(records))
	for _, r := range records {
		ds, err := r.dataset()
		if err != nil {
			return nil, err
		}
		out = append(out, ds)
	}
	return out, nil
}
